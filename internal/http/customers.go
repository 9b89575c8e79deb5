package http

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/policydesk/polgw/internal/importer"
	"github.com/policydesk/polgw/internal/normalize"
)

type addCustomerReq struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	PolicyNumber string `json:"policy_number"`
	PolicyType   string `json:"policy_type"`
	ExpiryDate   string `json:"expiry_date"`
}

func addCustomerHandler(imp *importer.Importer, norm *normalize.Normalizer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addCustomerReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Phone = strings.TrimSpace(req.Phone)
		if req.Name == "" || req.Phone == "" || req.PolicyNumber == "" || req.ExpiryDate == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		rec := normalize.Record{
			Name:         req.Name,
			Phone:        norm.Phone(req.Phone),
			Email:        strings.TrimSpace(req.Email),
			PolicyNumber: req.PolicyNumber,
			PolicyType:   req.PolicyType,
			ExpiryDate:   req.ExpiryDate,
		}

		if err := imp.Upsert(c.Request().Context(), rec); err != nil {
			log.Errorf("add customer failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]string{"message": "Customer and policy added successfully"})
	}
}
