package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/permauto/backend/dto"
	"github.com/permauto/backend/models"
	"github.com/permauto/backend/store"
	"github.com/permauto/backend/utils"
)

// GET /authorizations and GET /admin/authorizations
//
// Optional query filters: status, userId, q (accent-insensitive company
// name match). Filters are ANDed. Records come back newest first.
func ListAuthorizations(auths store.Authorizations) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.AuthorizationFilter{
			Status:  c.Query("status"),
			UserID:  c.Query("userId"),
			Company: c.Query("q"),
		}

		items, err := auths.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to list authorizations", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "authorizations": items})
	}
}

// POST /authorizations
func CreateAuthorization(auths store.Authorizations) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.AuthorizationDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing required fields", "error": err.Error()})
			return
		}

		start, end, err := parseValidityWindow(body.StartDate, body.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		// Status and approver are server-assigned on create, whatever the
		// client sent.
		auth := models.Authorization{
			CompanyName: body.CompanyName,
			RUC:         body.RUC,
			Reason:      body.Reason,
			Status:      models.StatusInitiated,
			UserID:      body.UserID,
			ApprovedBy:  models.ApproverPending,
			StartDate:   start,
			EndDate:     end,
			Timestamp:   time.Now().UTC(),
		}

		if err := auths.Insert(c.Request.Context(), &auth); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create authorization", "error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":       true,
			"message":       "authorization created",
			"authorization": auth,
		})
	}
}

// GET /authorizations/:id
func GetAuthorization(auths store.Authorizations) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, err := auths.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "authorization not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch authorization", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "authorization": auth})
	}
}

// PUT /authorizations/:id
//
// Full replace of the mutable fields, with two exceptions: approvedBy is
// only touched when supplied, and an omitted status keeps the stored one.
// The creation timestamp is immutable.
func UpdateAuthorization(auths store.Authorizations) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.AuthorizationDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing required fields", "error": err.Error()})
			return
		}

		start, end, err := parseValidityWindow(body.StartDate, body.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		id := c.Param("id")
		existing, err := auths.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "authorization not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch authorization", "error": err.Error()})
			return
		}

		status := existing.Status
		if body.Status != "" {
			status = models.AuthorizationStatus(body.Status)
		}
		// No enforced transition table yet; leaving a final decision is
		// allowed but worth a trace in the logs.
		if models.TerminalStatus(existing.Status) && status != existing.Status {
			log.Printf("authorization %s: unusual status transition %s -> %s", id, existing.Status, status)
		}

		upd := store.AuthorizationUpdate{
			CompanyName: body.CompanyName,
			RUC:         body.RUC,
			Reason:      body.Reason,
			UserID:      body.UserID,
			Status:      status,
			StartDate:   start,
			EndDate:     end,
		}
		if body.ApprovedBy != "" {
			upd.ApprovedBy = &body.ApprovedBy
		}

		auth, err := auths.Update(c.Request.Context(), id, upd)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "authorization not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update authorization", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"message":       "authorization updated",
			"authorization": auth,
		})
	}
}

// DELETE /authorizations/:id
func DeleteAuthorization(auths store.Authorizations) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auths.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "authorization not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete authorization", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "authorization deleted"})
	}
}

func parseValidityWindow(startStr, endStr string) (start, end time.Time, err error) {
	start, err = utils.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid startDate")
	}
	end, err = utils.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid endDate")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("endDate must be after startDate")
	}
	return start, end, nil
}
