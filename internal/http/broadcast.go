package http

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/policydesk/polgw/internal/broadcast"
	"github.com/policydesk/polgw/internal/model"
	"github.com/policydesk/polgw/internal/whatsapp"
)

type broadcastReq struct {
	CampaignName    string `json:"campaignName"`
	MessageTemplate string `json:"messageTemplate"`
	IsTest          bool   `json:"isTest"`
}

func broadcastHandler(caster *broadcast.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req broadcastReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		if strings.TrimSpace(req.MessageTemplate) == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		if !req.IsTest && strings.TrimSpace(req.CampaignName) == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		results, err := caster.Run(c.Request().Context(), req.CampaignName, req.MessageTemplate, req.IsTest)
		if err != nil {
			log.Errorf("broadcast failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"message": "Broadcast initiated",
			"count":   len(results),
		})
	}
}

type sendManualReq struct {
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func sendManualHandler(sender whatsapp.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req sendManualReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Message) == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		res := sender.Send(c.Request().Context(), req.Phone, model.TextMessage(req.Message))
		return c.JSON(http.StatusOK, map[string]string{"status": res.Status.String()})
	}
}
