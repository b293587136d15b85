package handlers

import (
	"net/http"
	"strconv"

	"ferry-booking/internal/http/middleware"
	"ferry-booking/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/:reference/passengers/:position/e-ticket
func GetETicketPDF(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid passenger position", err)
		return
	}

	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.GenerateETicket(c.Param("reference"), position)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/bookings/:reference/receipt
func GetReceiptPDF(c *gin.Context) {
	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.GenerateReceipt(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
