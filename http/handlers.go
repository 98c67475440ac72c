package http

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"airquality/db"
	"airquality/i18n"
	"airquality/ml"
	"airquality/monitoring"
	"airquality/pipeline"
)

// multipart bodies are accepted like url-encoded ones
const maxFormMemory = 32 << 10

// Dependencies 处理器依赖，启动时构建一次
type Dependencies struct {
	Predictor *ml.Predictor
	Limits    pipeline.Limits
	Messages  *i18n.Bundle
	Negotiate bool
	History   db.Store
	Metrics   *monitoring.Metrics
	Logger    *zap.Logger
	ModelName string
}

// Handler 表单控制器
type Handler struct {
	deps Dependencies
	page *template.Template
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if deps.Messages == nil {
		return nil, errors.New("message bundle is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	return &Handler{deps: deps, page: page}, nil
}

// RegisterHandlers 注册表单与API路由
func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /{$}", h.handleSubmit)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/predictions", h.handlePredictions)
	if h.deps.Metrics != nil {
		mux.Handle("GET /metrics", h.deps.Metrics.Handler())
	}
}

func (h *Handler) translator(r *http.Request) *i18n.Translator {
	tag := h.deps.Messages.Default()
	if h.deps.Negotiate {
		tag = h.deps.Messages.Negotiate(r.Header.Get("Accept-Language"))
	}
	return h.deps.Messages.Translator(tag)
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, newPage(h.translator(r), nil, nil))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	tr := h.translator(r)
	logger := h.deps.Logger.With(zap.String("request_id", GetRequestID(r.Context())))

	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.rejectMalformed(w, r, tr, logger, err)
		return
	}

	sub, err := pipeline.ParseSubmission(r.PostForm)
	if err != nil {
		h.rejectMalformed(w, r, tr, logger, err)
		return
	}

	if v := sub.Validate(h.deps.Limits); v != nil {
		logger.Debug("reading out of range", zap.String("feature", v.Field), zap.Float64("value", v.Value))
		h.deps.Metrics.ObserveSubmission(monitoring.OutcomeOutOfRange)
		h.deps.Metrics.ObserveViolation(v.Field)
		message := tr.T(i18n.BoundViolation, v.Field, v.Side.Operator(), v.Bound.String())
		h.render(w, r, newPage(tr, sub.Raw[:], errorResult(message)))
		return
	}

	start := time.Now()
	outcome := h.deps.Predictor.Predict(r.Context(), sub.Features)
	elapsed := time.Since(start)

	if !outcome.OK() {
		fields := []zap.Field{zap.Error(outcome.Err), zap.Duration("elapsed", elapsed)}
		var panicErr *ml.PanicError
		if errors.As(outcome.Err, &panicErr) {
			fields = append(fields, zap.ByteString("stack", panicErr.Stack))
		}
		logger.Error("prediction failed", fields...)
		h.deps.Metrics.ObserveSubmission(monitoring.OutcomeFailed)
		h.deps.Metrics.ObserveLatency(elapsed)
		h.render(w, r, newPage(tr, sub.Raw[:], errorResult(tr.T(i18n.SystemError, outcome.Err.Error()))))
		return
	}

	result := outcome.Result
	h.deps.Metrics.ObserveSubmission(monitoring.OutcomePredicted)
	h.deps.Metrics.ObservePrediction(result.Label, elapsed)
	logger.Debug("prediction",
		zap.Int("class", result.Class),
		zap.Float64s("probabilities", result.Probabilities),
		zap.Duration("elapsed", elapsed),
	)

	if h.deps.History != nil {
		record := db.PredictionRecord{
			Features:      sub.Features,
			Class:         result.Class,
			Label:         result.Label,
			Probabilities: result.Probabilities,
		}
		if _, err := h.deps.History.Save(r.Context(), record); err != nil {
			logger.Warn("failed to record prediction", zap.Error(err))
		}
	}

	h.render(w, r, newPage(tr, sub.Raw[:], predictionResult(tr, sub.Features, result)))
}

func (h *Handler) rejectMalformed(w http.ResponseWriter, r *http.Request, tr *i18n.Translator, logger *zap.Logger, err error) {
	logger.Debug("malformed submission", zap.Error(err))
	h.deps.Metrics.ObserveSubmission(monitoring.OutcomeMalformed)
	h.render(w, r, newPage(tr, nil, errorResult(tr.T(i18n.MalformedInput))))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page pageView) {
	if err := renderPage(w, h.page, page); err != nil {
		h.deps.Logger.Error("failed to render page",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
