package handlers

import (
	"net/http"

	"rideguard/internal/models"
	"rideguard/internal/services"
	"rideguard/internal/utils"
	"rideguard/internal/validators"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// AddContact registers a new emergency contact for the authenticated user.
func (h *ContactHandler) AddContact(c *gin.Context) {
	var contact models.EmergencyContact
	if err := c.ShouldBindJSON(&contact); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := validators.ValidateEmergencyContact(&contact); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}
	contact.UserID = userID.(string)

	if err := h.contactService.AddContact(c.Request.Context(), &contact); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "CONTACT_ADD_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, "Emergency contact added", contact)
}

// UpdateContact applies partial updates to one of the user's contacts.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.contactService.UpdateContact(c.Request.Context(), userID.(string), c.Param("id"), updates); err != nil {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "CONTACT_UPDATE_FAILED", err.Error())
		return
	}

	utils.SuccessResponse(c, "Emergency contact updated", nil)
}

// DeleteContact removes one of the user's contacts.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, "Emergency contact deleted", nil)
}

// ListContacts returns the user's emergency contacts ordered by priority.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID.(string))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "CONTACT_LIST_FAILED", "Failed to list contacts: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Emergency contacts retrieved", contacts)
}
