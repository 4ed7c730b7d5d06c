package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"

	"github.com/hickeroar/docclass/classifier"
	"github.com/hickeroar/docclass/config"
	"github.com/hickeroar/docclass/features"
	"github.com/hickeroar/docclass/review"
)

var categoryPathPattern = regexp.MustCompile(`^[-_A-Za-z0-9]+$`)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var (
	makeSignalChannel = func() chan os.Signal { return make(chan os.Signal, 1) }
	notifySignals     = func(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }
	newServer         = func(addr string, handler http.Handler, cfg config.ServerConfig) httpServer {
		return &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		}
	}
	logFatal = func(v ...interface{}) { log.Fatal(v...) }
	runMain  = func() error { return newRootCommand().Execute() }
)

// ClassifierAPI serves classifier HTTP endpoints and shared classifier state.
type ClassifierAPI struct {
	classifier   *classifier.Classifier
	weighting    classifier.Weighting
	maxBodyBytes int64
	mu           sync.RWMutex
	ready        atomic.Bool
}

// NewClassifierAPI builds the API and its classifier from cfg.
func NewClassifierAPI(cfg *config.Config) (*ClassifierAPI, error) {
	extract, err := features.New(cfg.FeatureOptions())
	if err != nil {
		return nil, err
	}

	weighting := cfg.ClassifierWeighting()
	if err := weighting.Validate(); err != nil {
		return nil, err
	}

	api := &ClassifierAPI{
		classifier:   classifier.NewClassifier(extract),
		weighting:    weighting,
		maxBodyBytes: cfg.Server.MaxBodyBytes,
	}
	if cfg.Sample {
		classifier.SampleTrain(api.classifier)
	}

	return api, nil
}

// RegisterRoutes registers all API routes on the provided ServeMux.
func (c *ClassifierAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/info", c.InfoHandler)
	mux.HandleFunc("/train/", c.TrainHandler)
	mux.HandleFunc("/reviews/", c.ReviewHandler)
	mux.HandleFunc("/features", c.FeaturesHandler)
	mux.HandleFunc("/prob", c.ProbHandler)
	mux.HandleFunc("/healthz", HealthHandler)
	mux.HandleFunc("/readyz", c.ReadyHandler)
}

func serve(cfg *config.Config) error {
	if err := configureLogging(cfg.Logging); err != nil {
		return err
	}

	controller, err := NewClassifierAPI(cfg)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	controller.RegisterRoutes(mux)
	handler := withRequestLogging(withAuthorizationToken(mux, cfg.Server.AuthToken))

	server := newServer(":"+cfg.Server.Port, handler, cfg.Server)
	controller.ready.Store(true)
	log.WithFields(log.Fields{
		"port":   cfg.Server.Port,
		"auth":   cfg.Server.AuthToken != "",
		"sample": cfg.Sample,
	}).Info("server is listening")

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logFatal(err)
		}
	}()

	sigCh := makeSignalChannel()
	notifySignals(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	controller.ready.Store(false)
	log.WithField("signal", sig).Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(ctx)
}

func configureLogging(cfg config.LoggingConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	jsonResponse, err := json.Marshal(value)
	if err != nil {
		http.Error(w, `{"error":"failed to marshal response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonResponse); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readBody(w http.ResponseWriter, req *http.Request, limit int64) (string, bool) {
	req.Body = http.MaxBytesReader(w, req.Body, limit)
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return "", false
		}
		writeError(w, http.StatusBadRequest, "unable to read request body")
		return "", false
	}

	return string(body), true
}

func categoryFromPath(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	category := strings.TrimPrefix(path, prefix)
	if category == "" || strings.Contains(category, "/") {
		return "", false
	}

	if !categoryPathPattern.MatchString(category) {
		return "", false
	}

	return category, true
}

func requireMethod(w http.ResponseWriter, req *http.Request, method string) bool {
	if req.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func parseWeighting(query map[string][]string, base classifier.Weighting) (classifier.Weighting, error) {
	w := base
	if vals := query["weight"]; len(vals) > 0 {
		weight, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return w, errors.New("weight must be a number")
		}
		w.Weight = weight
	}
	if vals := query["ap"]; len(vals) > 0 {
		ap, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return w, errors.New("ap must be a number")
		}
		w.AssumedProb = ap
	}
	return w, w.Validate()
}

// InfoHandler returns the current classifier training state.
func (c *ClassifierAPI) InfoHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodGet) {
		return
	}

	c.mu.RLock()
	response := NewInfoResponse(c)
	c.mu.RUnlock()

	writeJSON(w, http.StatusOK, response)
}

// TrainHandler trains a category using request body text.
func (c *ClassifierAPI) TrainHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodPost) {
		return
	}

	category, ok := categoryFromPath(req.URL.Path, "/train/")
	if !ok {
		writeError(w, http.StatusNotFound, "invalid category route")
		return
	}

	body, ok := readBody(w, req, c.maxBodyBytes)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, c.train(category, body))
}

// ReviewHandler parses a name|score|date|text record and trains its full text.
func (c *ClassifierAPI) ReviewHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodPost) {
		return
	}

	category, ok := categoryFromPath(req.URL.Path, "/reviews/")
	if !ok {
		writeError(w, http.StatusNotFound, "invalid category route")
		return
	}

	body, ok := readBody(w, req, c.maxBodyBytes)
	if !ok {
		return
	}

	record, err := review.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.WithFields(log.Fields{
		"category": category,
		"business": record.Name,
		"score":    record.Score,
	}).Debug("training review")

	writeJSON(w, http.StatusOK, c.train(category, record.FullText()))
}

func (c *ClassifierAPI) train(category, item string) *TrainingResponse {
	found := c.classifier.Extract(item)

	c.mu.Lock()
	c.classifier.Train(item, category)
	response := NewTrainingResponse(c, category, found)
	c.mu.Unlock()

	return response
}

// FeaturesHandler returns the features extracted from request body text.
func (c *ClassifierAPI) FeaturesHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodPost) {
		return
	}

	body, ok := readBody(w, req, c.maxBodyBytes)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, &FeaturesResponse{Features: c.classifier.Extract(body)})
}

// ProbHandler returns counts and probability estimates for a feature and category.
func (c *ClassifierAPI) ProbHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodGet) {
		return
	}

	query := req.URL.Query()
	term := query.Get("feature")
	category := query.Get("category")
	if strings.TrimSpace(term) == "" || category == "" {
		writeError(w, http.StatusBadRequest, "feature and category are required")
		return
	}

	feature, ok := c.classifier.Feature(term)
	if !ok {
		writeError(w, http.StatusBadRequest, "feature must be a single extractable word")
		return
	}

	weighting, err := parseWeighting(query, c.weighting)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.mu.RLock()
	response := NewProbabilityResponse(c, feature, category, weighting)
	c.mu.RUnlock()

	writeJSON(w, http.StatusOK, response)
}

// HealthHandler returns liveness status for process health checks.
func HealthHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler returns readiness status for traffic checks.
func (c *ClassifierAPI) ReadyHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodGet) {
		return
	}
	if !c.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// withAuthorizationToken requires a bearer token on everything except the
// health and readiness checks. An empty token disables the check.
func withAuthorizationToken(next http.Handler, token string) http.Handler {
	if token == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/healthz" || req.URL.Path == "/readyz" {
			next.ServeHTTP(w, req)
			return
		}

		provided, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="docclass"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, req)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLogging tags every request with a ULID and logs its outcome.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		id := ulid.Make().String()
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		log.WithFields(log.Fields{
			"request_id": id,
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start),
		}).Info("request")
	})
}

func main() {
	if err := runMain(); err != nil {
		logFatal(err)
	}
}
