// backend-sim serves stand-ins for the four upstream backends (patient,
// doctor, billing, notification) on a single port, with generated data, so
// the aggregator and booking coordinator can run without the real services.
package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fixture struct {
	patients        []map[string]any
	patientsByID    map[string]map[string]any
	doctors         []map[string]any
	doctorsByID     map[string]map[string]any
	billingAccounts []map[string]any
	notifications   []map[string]any
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("logger init error: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	port := getenv("SIM_PORT", "4000")
	patientCount := getenvInt("SIM_PATIENTS", 50)
	doctorCount := getenvInt("SIM_DOCTORS", 10)

	gofakeit.Seed(time.Now().UnixNano())
	fx := buildFixture(patientCount, doctorCount)

	logger.Info("backend-sim generated data",
		zap.Int("patients", len(fx.patients)),
		zap.Int("doctors", len(fx.doctors)),
		zap.Int("billing_accounts", len(fx.billingAccounts)),
		zap.Int("notifications", len(fx.notifications)),
	)

	r := chi.NewRouter()

	r.Get("/patients", listJSON(fx.patients))
	r.Get("/patients/{id}", byID(fx.patientsByID))
	r.Get("/doctors", listJSON(fx.doctors))
	r.Get("/doctors/{id}", byID(fx.doctorsByID))
	r.Get("/billing-accounts", listJSON(fx.billingAccounts))
	r.Get("/notifications", listJSON(fx.notifications))
	r.Get("/notifications/stats", notificationStats(fx.notifications))

	logger.Info("backend-sim listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("backend-sim server error", zap.Error(err))
	}
}

func buildFixture(patientCount, doctorCount int) *fixture {
	fx := &fixture{
		patientsByID: make(map[string]map[string]any),
		doctorsByID:  make(map[string]map[string]any),
	}

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Medicine",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
	}

	for i := 0; i < patientCount; i++ {
		id := uuid.NewString()
		p := map[string]any{
			"id":    id,
			"name":  gofakeit.Name(),
			"email": gofakeit.Email(),
		}
		fx.patients = append(fx.patients, p)
		fx.patientsByID[id] = p

		// Roughly half the patients carry a billing account.
		if i%2 == 0 {
			fx.billingAccounts = append(fx.billingAccounts, map[string]any{
				"id":        uuid.NewString(),
				"patientId": id,
				"balance":   gofakeit.Price(0, 2000),
			})
		}
	}

	for i := 0; i < doctorCount; i++ {
		id := uuid.NewString()
		d := map[string]any{
			"id":             id,
			"name":           "Dr. " + gofakeit.LastName(),
			"specialization": specialties[gofakeit.Number(0, len(specialties)-1)],
			"email":          gofakeit.Email(),
		}
		fx.doctors = append(fx.doctors, d)
		fx.doctorsByID[id] = d
	}

	for i := 0; i < patientCount*2; i++ {
		status := "SENT"
		if gofakeit.Number(0, 9) == 0 {
			status = "FAILED"
		}
		fx.notifications = append(fx.notifications, map[string]any{
			"id":      uuid.NewString(),
			"status":  status,
			"subject": gofakeit.Sentence(4),
		})
	}

	return fx
}

func listJSON(items []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, items)
	}
}

func byID(index map[string]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := index[chi.URLParam(r, "id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func notificationStats(notifications []map[string]any) http.HandlerFunc {
	sent := 0
	for _, n := range notifications {
		if n["status"] == "SENT" {
			sent++
		}
	}
	stats := map[string]any{
		"totalNotifications": len(notifications),
		"sentNotifications":  sent,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stats)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
