package utils

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/atelier-studio/atelier-go/internal/domain/audit"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/gin-gonic/gin"
)

func LogAuditWithConsole(c *gin.Context, action, resourceType, resourceID string, oldData, newData interface{}, msg string, repos repository.AuditRepo) {
	userID, _ := GetUserIDFromContext(c)
	if err := LogAudit(c, userID, action, resourceType, resourceID, oldData, newData, msg, repos); err != nil {
		fmt.Printf("[LogAudit] error: %v\n", err)
	}
}

func LogAudit(
	c *gin.Context,
	userID uint,
	action string,
	resourceType string,
	resourceID string,
	before any,
	after any,
	description string,
	repos repository.AuditRepo,
) error {
	var oldData, newData []byte
	var err error

	if before != nil {
		oldData, err = json.Marshal(before)
		if err != nil {
			log.Printf("Audit marshal oldData error: %v", err)
		}
	}
	if after != nil {
		newData, err = json.Marshal(after)
		if err != nil {
			log.Printf("Audit marshal newData error: %v", err)
		}
	}

	entry := &audit.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldData:      oldData,
		NewData:      newData,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.GetHeader("User-Agent"),
		Description:  description,
	}

	return repos.CreateAuditLog(entry)
}
