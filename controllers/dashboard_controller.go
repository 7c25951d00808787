package controllers

import (
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/permauto/backend/models"
	"github.com/permauto/backend/store"
)

type ApproverCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DashboardStats struct {
	Users struct {
		Total     int `json:"total"`
		Admins    int `json:"admins"`
		Subadmins int `json:"subadmins"`
		Security  int `json:"security"`
		Regular   int `json:"regular"`
	} `json:"users"`
	Authorizations struct {
		Total      int             `json:"total"`
		Approved   int             `json:"approved"`
		Rejected   int             `json:"rejected"`
		Pending    int             `json:"pending"`
		BySubadmin []ApproverCount `json:"bySubadmin"`
	} `json:"authorizations"`
	Security struct {
		Entries         int     `json:"entries"`
		Exits           int     `json:"exits"`
		CurrentPresence int     `json:"currentPresence"`
		ByHour          [24]int `json:"byHour"`
	} `json:"security"`
}

// GET /admin/dashboard
//
// One call serving every aggregate the dashboard page renders, so the
// frontend does not have to join three listings client-side.
func Dashboard(users store.Users, auths store.Authorizations, logs store.SecurityLogs) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userList, err := users.List(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load users", "error": err.Error()})
			return
		}
		authList, err := auths.List(ctx, store.AuthorizationFilter{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load authorizations", "error": err.Error()})
			return
		}
		// The gate log collection may be empty or missing on fresh
		// installs; the dashboard still renders without it, but a
		// failing store should not go unnoticed.
		logList, err := logs.List(ctx)
		if err != nil {
			log.Printf("dashboard: security logs unavailable: %v", err)
			logList = nil
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"stats":   BuildDashboardStats(userList, authList, logList),
		})
	}
}

func BuildDashboardStats(users []models.User, auths []models.Authorization, logs []models.SecurityLog) DashboardStats {
	var stats DashboardStats

	nameByID := make(map[string]string, len(users))
	stats.Users.Total = len(users)
	for _, u := range users {
		nameByID[u.ID.Hex()] = u.Name
		switch u.Role {
		case models.RoleAdmin:
			stats.Users.Admins++
		case models.RoleSubadmin:
			stats.Users.Subadmins++
		case models.RoleSecurity:
			stats.Users.Security++
		default:
			stats.Users.Regular++
		}
	}

	stats.Authorizations.Total = len(auths)
	approverCounts := make(map[string]int)
	for _, a := range auths {
		switch a.Status {
		case models.StatusApproved:
			stats.Authorizations.Approved++
		case models.StatusRejected:
			stats.Authorizations.Rejected++
		default:
			// initiated and completed are both still awaiting a decision
			stats.Authorizations.Pending++
		}
		if a.ApprovedBy != "" && a.ApprovedBy != models.ApproverPending {
			if name, ok := nameByID[a.ApprovedBy]; ok {
				approverCounts[name]++
			}
		}
	}
	bySubadmin := make([]ApproverCount, 0, len(approverCounts))
	for name, count := range approverCounts {
		bySubadmin = append(bySubadmin, ApproverCount{Name: name, Count: count})
	}
	sort.Slice(bySubadmin, func(i, j int) bool {
		if bySubadmin[i].Count != bySubadmin[j].Count {
			return bySubadmin[i].Count > bySubadmin[j].Count
		}
		return bySubadmin[i].Name < bySubadmin[j].Name
	})
	stats.Authorizations.BySubadmin = bySubadmin

	for _, l := range logs {
		switch l.Type {
		case models.LogEntry:
			stats.Security.Entries++
		case models.LogExit:
			stats.Security.Exits++
		}
		stats.Security.ByHour[l.Timestamp.UTC().Hour()]++
	}
	if presence := stats.Security.Entries - stats.Security.Exits; presence > 0 {
		stats.Security.CurrentPresence = presence
	}

	return stats
}
