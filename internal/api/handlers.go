package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/gmsas95/pulsetrack/internal/dashboard"
	apperrors "github.com/gmsas95/pulsetrack/internal/errors"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   "0.1.0",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	sess, err := s.sessions.SignIn(req.UserID)
	if err != nil {
		return s.respondError(c, err)
	}

	ttl := time.Duration(s.config.Security.SessionTTLHours) * time.Hour
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sess.UserID,
		"sid": sess.Token,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.config.Security.JWTSecret))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate token"})
	}

	return c.JSON(fiber.Map{"token": tokenString})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	s.sessions.SignOut()
	return c.JSON(fiber.Map{"success": true})
}

// historyEntry pairs a reading with its classification badge.
type historyEntry struct {
	dashboard.HeartRateReading
	Classification dashboard.Classification `json:"classification"`
}

// medicationView pairs a regimen with its resolved daily status.
type medicationView struct {
	dashboard.Medication
	Status     string `json:"status"`
	TakenToday bool   `json:"taken_today"`
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	userID := s.userID(c)

	window, err := dashboard.ParseWindow(c.Query("window", string(dashboard.WindowToday)))
	if err != nil {
		return s.respondError(c, err)
	}

	data, err := s.repo.LoadUserData(userID)
	if err != nil {
		return s.respondError(c, err)
	}

	now := s.repo.Clock().Now()
	report := dashboard.Aggregate(data.Readings, window, now, s.aggOpts)

	history := make([]historyEntry, 0, len(report.History))
	for _, r := range report.History {
		history = append(history, historyEntry{
			HeartRateReading: r,
			Classification:   dashboard.Classify(r.BPM),
		})
	}

	meds := make([]medicationView, 0, len(data.Medications))
	for _, med := range data.Medications {
		status := dashboard.TodayStatus(med, now)
		meds = append(meds, medicationView{
			Medication: med,
			Status:     status.String(),
			TakenToday: status == dashboard.StatusTaken,
		})
	}

	return c.JSON(fiber.Map{
		"window":      report.Window,
		"series":      report.Series,
		"history":     history,
		"alert":       report.Alert,
		"latest_bpm":  data.LatestBPM(),
		"adherence":   dashboard.Summarize(data.Medications, now),
		"medications": meds,
		"contacts":    data.Contacts,
	})
}

func (s *Server) handleAddReading(c *fiber.Ctx) error {
	userID := s.userID(c)

	var req struct {
		BPM string `json:"bpm"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	reading, err := s.repo.AddReading(userID, req.BPM)
	if err != nil {
		return s.respondError(c, err)
	}

	return s.respondWithData(c, userID, fiber.Map{"reading": reading})
}

func (s *Server) handleAddMedication(c *fiber.Ctx) error {
	userID := s.userID(c)

	var req dashboard.MedicationInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	med, err := s.repo.AddMedication(userID, req)
	if err != nil {
		return s.respondError(c, err)
	}

	return s.respondWithData(c, userID, fiber.Map{"medication": med})
}

func (s *Server) handleTakeMedication(c *fiber.Ctx) error {
	userID := s.userID(c)

	med, err := s.repo.TakeMedication(c.Params("id"))
	if err != nil {
		return s.respondError(c, err)
	}

	return s.respondWithData(c, userID, fiber.Map{"medication": med})
}

func (s *Server) handleDeleteMedication(c *fiber.Ctx) error {
	userID := s.userID(c)

	s.repo.DeleteMedication(c.Params("id"))

	return s.respondWithData(c, userID, fiber.Map{})
}

func (s *Server) handleAddContact(c *fiber.Ctx) error {
	userID := s.userID(c)

	var req dashboard.ContactInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	ct, err := s.repo.AddContact(userID, req)
	if err != nil {
		return s.respondError(c, err)
	}

	return s.respondWithData(c, userID, fiber.Map{"contact": ct})
}

func (s *Server) handleUpdateContact(c *fiber.Ctx) error {
	userID := s.userID(c)

	var req dashboard.ContactInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	ct, err := s.repo.UpdateContact(c.Params("id"), req)
	if err != nil {
		return s.respondError(c, err)
	}

	extra := fiber.Map{}
	if ct != nil {
		extra["contact"] = ct
	}
	return s.respondWithData(c, userID, extra)
}

func (s *Server) handleDeleteContact(c *fiber.Ctx) error {
	userID := s.userID(c)

	s.repo.DeleteContact(c.Params("id"))

	return s.respondWithData(c, userID, fiber.Map{})
}

// respondWithData reloads the user's collections after a mutation so every
// response carries the authoritative snapshot (read-your-writes).
func (s *Server) respondWithData(c *fiber.Ctx, userID string, extra fiber.Map) error {
	data, err := s.repo.LoadUserData(userID)
	if err != nil {
		return s.respondError(c, err)
	}

	body := fiber.Map{"data": data}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(body)
}

func (s *Server) respondError(c *fiber.Ctx, err error) error {
	code := apperrors.GetCode(err)

	switch {
	case apperrors.IsValidation(err):
		return c.Status(400).JSON(fiber.Map{"error": err.Error(), "code": code})
	case apperrors.IsNotFound(err):
		return c.Status(404).JSON(fiber.Map{"error": err.Error(), "code": code})
	}

	s.logger.Error("Request failed", zap.Error(err))
	return c.Status(500).JSON(fiber.Map{"error": "internal error", "code": code})
}
