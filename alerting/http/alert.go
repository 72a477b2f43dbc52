package http

import (
	"errors"
	"strconv"
	"time"

	"alertflow/alerting/dto"
	"alertflow/alerting/http/middleware"
	"alertflow/pkg/aferrors"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

func (s *Server) login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			WriteBadRequest(c.JSON, err.Error())
			return
		}

		token, expiresIn, err := s.tokener.Login(req.Username, req.Password)
		if err != nil {
			WriteUnauthorized(c.JSON, "invalid credentials")
			return
		}

		WriteOK(c.JSON, &dto.TokenVo{Token: token, ExpiresIn: expiresIn})
	}
}

// ingestWebhook accepts a batch of raw producer payloads. One malformed
// entry is skipped inside the engine and never aborts the batch.
func (s *Server) ingestWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		var batch []dto.RawAlert
		if err := c.ShouldBindJSON(&batch); err != nil {
			WriteBadRequest(c.JSON, err.Error())
			return
		}

		processed := 0
		for i := range batch {
			if s.manager.Process(c.Request.Context(), &batch[i]) {
				processed++
			}
		}

		WriteOK(c.JSON, &dto.WebhookResult{Processed: processed, Total: len(batch)})
	}
}

func (s *Server) listActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		WriteOK(c.JSON, s.manager.Active())
	}
}

func (s *Server) listHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				WriteBadRequest(c.JSON, "limit must be a positive integer")
				return
			}
			limit = n
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}

		rows, err := s.manager.History(c.Request.Context(), limit)
		if err != nil {
			WriteError(c.JSON, err.Error())
			return
		}
		WriteOK(c.JSON, rows)
	}
}

func (s *Server) alertStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		hours := 24
		if raw := c.Query("hours"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				WriteBadRequest(c.JSON, "hours must be a positive integer")
				return
			}
			hours = n
		}

		stats, err := s.manager.Stats(c.Request.Context(), hours)
		if err != nil {
			WriteError(c.JSON, err.Error())
			return
		}
		WriteOK(c.JSON, stats)
	}
}

func (s *Server) silenceAlert() gin.HandlerFunc {
	return func(c *gin.Context) {
		alertID := c.Param("alert_id")

		var req dto.SilenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			WriteBadRequest(c.JSON, err.Error())
			return
		}

		operator := c.GetString(middleware.OperatorKey)
		duration := time.Duration(req.DurationMinutes) * time.Minute

		record, ok := s.manager.Silence(c.Request.Context(), alertID, duration, req.Comment, operator)
		if !ok {
			WriteNotFound(c.JSON, "alert not active")
			return
		}
		WriteOK(c.JSON, record)
	}
}

func (s *Server) resolveAlert() gin.HandlerFunc {
	return func(c *gin.Context) {
		alertID := c.Param("alert_id")
		if !s.manager.Resolve(c.Request.Context(), alertID) {
			WriteNotFound(c.JSON, "alert not active")
			return
		}
		WriteOK(c.JSON, gin.H{"alert_id": alertID, "status": "resolved"})
	}
}

func (s *Server) listSilences() gin.HandlerFunc {
	return func(c *gin.Context) {
		activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
		rows, err := s.manager.Silences().List(c.Request.Context(), activeOnly)
		if err != nil {
			WriteError(c.JSON, err.Error())
			return
		}
		WriteOK(c.JSON, rows)
	}
}

func (s *Server) deleteSilence() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.manager.Silences().Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, aferrors.ErrSilenceNotFound) {
				WriteNotFound(c.JSON, "silence not found")
				return
			}
			WriteError(c.JSON, err.Error())
			return
		}
		WriteOK(c.JSON, gin.H{"silence_id": id, "deleted": true})
	}
}
