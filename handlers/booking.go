package handlers

import (
	"net/http"

	"arone/middleware"
	"arone/models"
	"arone/services/inquiry"
	"arone/services/itinerary"
	"arone/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves inquiries, their chat and the traveler's itinerary.
type BookingHandler struct {
	Inquiries inquiry.InquiryService
	Itinerary itinerary.ItineraryService
}

func NewBookingHandler(inquiries inquiry.InquiryService, plan itinerary.ItineraryService) *BookingHandler {
	return &BookingHandler{Inquiries: inquiries, Itinerary: plan}
}

func party(c *gin.Context) inquiry.Party {
	s := middleware.GetSession(c)
	return inquiry.Party{ID: s.UserID, Email: s.Email}
}

func (h *BookingHandler) CreateInquiryHandler(c *gin.Context) {
	var input models.InquiryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid inquiry", err.Error())
		return
	}
	id, err := h.Inquiries.CreateInquiry(c.Request.Context(), party(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *BookingHandler) AppendMessageHandler(c *gin.Context) {
	var input models.MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid message", err.Error())
		return
	}
	if err := h.Inquiries.AppendMessage(c.Request.Context(), party(c), c.Param("id"), input.Text); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	if err := h.Inquiries.ConfirmBooking(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": models.StatusConfirmed})
}

func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	if err := h.Inquiries.DeleteBooking(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) AddItineraryItemHandler(c *gin.Context) {
	var input models.ItineraryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid itinerary item", err.Error())
		return
	}
	id, err := h.Itinerary.AddItem(c.Request.Context(), middleware.GetSession(c).UserID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *BookingHandler) RemoveItineraryItemHandler(c *gin.Context) {
	if err := h.Itinerary.RemoveItem(c.Request.Context(), middleware.GetSession(c).UserID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FinalizeItineraryHandler turns the plan into one bundle booking and points the client at
// the traveler hub.
func (h *BookingHandler) FinalizeItineraryHandler(c *gin.Context) {
	s := middleware.GetSession(c)
	id, err := h.Itinerary.Finalize(c.Request.Context(), s.UserID, s.Email)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "redirect": utils.RouteTravelHub})
}
