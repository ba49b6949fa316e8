// Package handler exposes the monitoring module over HTTP: rumor/event CRUD,
// risk communication CRUD and the risk assessment endpoint.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vigirisco/internal/monitor"
	"vigirisco/internal/risk"
	dErrors "vigirisco/pkg/domain-errors"
	"vigirisco/pkg/platform/httputil"
	"vigirisco/pkg/requestcontext"
)

// Service defines the monitoring operations the handler delegates to.
type Service interface {
	ListRumors(ctx context.Context) ([]monitor.Rumor, error)
	GetRumor(ctx context.Context, id int64) (*monitor.Rumor, error)
	CreateRumor(ctx context.Context, rumor monitor.Rumor) (*monitor.Rumor, error)
	UpdateRumor(ctx context.Context, rumor monitor.Rumor) (*monitor.Rumor, error)
	DeleteRumor(ctx context.Context, id int64) error

	ListCommunications(ctx context.Context) ([]monitor.Communication, error)
	GetCommunication(ctx context.Context, id int64) (*monitor.Communication, error)
	CreateCommunication(ctx context.Context, comm monitor.Communication) (*monitor.Communication, error)
	UpdateCommunication(ctx context.Context, comm monitor.Communication) (*monitor.Communication, error)
	DeleteCommunication(ctx context.Context, id int64) error

	AssessRumor(ctx context.Context, rumorID int64, inputs risk.Inputs) (*monitor.Assessment, error)
	ListAssessments(ctx context.Context, rumorID int64) ([]monitor.Assessment, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

const dateLayout = "2006-01-02"

type rumorPayload struct {
	Titulo               string `json:"titulo"`
	Descricao            string `json:"descricao"`
	LocalEvento          string `json:"localEvento"`
	NotificadorFonte     string `json:"notificadorFonte"`
	DataRecebimento      string `json:"dataRecebimento"`
	Veracidade           string `json:"veracidade"`
	FundamentoVeracidade string `json:"fundamentoVeracidade"`
	IDPais               *int64 `json:"idPais"`
	IDEstado             *int64 `json:"idEstado"`
	IDCidade             *int64 `json:"idCidade"`
	IDNatureza           *int64 `json:"idNatureza"`
	IDIcmra              *int64 `json:"idIcmra"`
}

type rumorResponse struct {
	ID                   int64  `json:"id"`
	IDU                  string `json:"idu"`
	Titulo               string `json:"titulo"`
	Descricao            string `json:"descricao"`
	LocalEvento          string `json:"localEvento"`
	NotificadorFonte     string `json:"notificadorFonte"`
	DataRecebimento      string `json:"dataRecebimento"`
	Veracidade           string `json:"veracidade"`
	FundamentoVeracidade string `json:"fundamentoVeracidade"`
	NivelRisco           string `json:"nivelRisco,omitempty"`
	IDPais               *int64 `json:"idPais,omitempty"`
	IDEstado             *int64 `json:"idEstado,omitempty"`
	IDCidade             *int64 `json:"idCidade,omitempty"`
	IDNatureza           *int64 `json:"idNatureza,omitempty"`
	IDIcmra              *int64 `json:"idIcmra,omitempty"`
	IDStatus             int64  `json:"idStatus"`
	CriadoEm             string `json:"dataCadastro"`
}

func toRumorResponse(r monitor.Rumor) rumorResponse {
	return rumorResponse{
		ID:                   r.ID,
		IDU:                  r.IDU,
		Titulo:               r.Titulo,
		Descricao:            r.Descricao,
		LocalEvento:          r.LocalEvento,
		NotificadorFonte:     r.NotificadorFonte,
		DataRecebimento:      r.DataRecebimento.Format(dateLayout),
		Veracidade:           r.Veracidade,
		FundamentoVeracidade: r.FundamentoVeracidade,
		NivelRisco:           r.NivelRisco,
		IDPais:               r.IDPais,
		IDEstado:             r.IDEstado,
		IDCidade:             r.IDCidade,
		IDNatureza:           r.IDNatureza,
		IDIcmra:              r.IDIcmra,
		IDStatus:             r.IDStatus,
		CriadoEm:             r.CriadoEm.Format(time.RFC3339),
	}
}

func (p rumorPayload) toModel(ctx context.Context) (monitor.Rumor, error) {
	rumor := monitor.Rumor{
		Titulo:               p.Titulo,
		Descricao:            p.Descricao,
		LocalEvento:          p.LocalEvento,
		NotificadorFonte:     p.NotificadorFonte,
		Veracidade:           p.Veracidade,
		FundamentoVeracidade: p.FundamentoVeracidade,
		IDPais:               p.IDPais,
		IDEstado:             p.IDEstado,
		IDCidade:             p.IDCidade,
		IDNatureza:           p.IDNatureza,
		IDIcmra:              p.IDIcmra,
	}
	// Empty date means "received today", matching the intake form.
	if p.DataRecebimento == "" {
		rumor.DataRecebimento = requestcontext.Now(ctx)
		return rumor, nil
	}
	received, err := time.Parse(dateLayout, p.DataRecebimento)
	if err != nil {
		return monitor.Rumor{}, dErrors.New(dErrors.CodeBadRequest, "dataRecebimento must be YYYY-MM-DD")
	}
	rumor.DataRecebimento = received
	return rumor, nil
}

func (h *Handler) ListRumores(w http.ResponseWriter, r *http.Request) {
	rumors, err := h.svc.ListRumors(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]rumorResponse, 0, len(rumors))
	for _, rumor := range rumors {
		out = append(out, toRumorResponse(rumor))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetRumor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rumor, err := h.svc.GetRumor(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRumorResponse(*rumor))
}

func (h *Handler) CreateRumor(w http.ResponseWriter, r *http.Request) {
	var payload rumorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	rumor, err := payload.toModel(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.svc.CreateRumor(r.Context(), rumor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toRumorResponse(*created))
}

func (h *Handler) UpdateRumor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var payload rumorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	rumor, err := payload.toModel(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rumor.ID = id
	updated, err := h.svc.UpdateRumor(r.Context(), rumor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRumorResponse(*updated))
}

func (h *Handler) DeleteRumor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteRumor(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type communicationPayload struct {
	DataEmail        string `json:"dataEmail"`
	AcaoAdotada      string `json:"acaoAdotada"`
	CNPJ             string `json:"cnpj"`
	Categoria        string `json:"categoria"`
	Escopo           string `json:"escopo"`
	Produto          string `json:"produto"`
	Lote             string `json:"lote"`
	NomeEmpresa      string `json:"nomeEmpresa"`
	Resolucao        string `json:"resolucao"`
	URL              string `json:"url"`
	DataDou          string `json:"dataDou"`
	MotivoAcao       string `json:"motivoAcao"`
	EmailNotificador string `json:"emailNotificador"`
}

type communicationResponse struct {
	ID               int64  `json:"id"`
	DataEmail        string `json:"dataEmail"`
	AcaoAdotada      string `json:"acaoAdotada"`
	CNPJ             string `json:"cnpj"`
	Categoria        string `json:"categoria"`
	Escopo           string `json:"escopo"`
	Produto          string `json:"produto"`
	Lote             string `json:"lote"`
	NomeEmpresa      string `json:"nomeEmpresa"`
	Resolucao        string `json:"resolucao"`
	URL              string `json:"url"`
	DataDou          string `json:"dataDou,omitempty"`
	MotivoAcao       string `json:"motivoAcao"`
	EmailNotificador string `json:"emailNotificador"`
	CriadoEm         string `json:"dataCadastro"`
}

func toCommunicationResponse(c monitor.Communication) communicationResponse {
	out := communicationResponse{
		ID:               c.ID,
		DataEmail:        c.DataEmail.Format(dateLayout),
		AcaoAdotada:      c.AcaoAdotada,
		CNPJ:             c.CNPJ,
		Categoria:        c.Categoria,
		Escopo:           c.Escopo,
		Produto:          c.Produto,
		Lote:             c.Lote,
		NomeEmpresa:      c.NomeEmpresa,
		Resolucao:        c.Resolucao,
		URL:              c.URL,
		MotivoAcao:       c.MotivoAcao,
		EmailNotificador: c.EmailNotificador,
		CriadoEm:         c.CriadoEm.Format(time.RFC3339),
	}
	if c.DataDou != nil {
		out.DataDou = c.DataDou.Format(dateLayout)
	}
	return out
}

func (p communicationPayload) toModel(ctx context.Context) (monitor.Communication, error) {
	comm := monitor.Communication{
		AcaoAdotada:      p.AcaoAdotada,
		CNPJ:             p.CNPJ,
		Categoria:        p.Categoria,
		Escopo:           p.Escopo,
		Produto:          p.Produto,
		Lote:             p.Lote,
		NomeEmpresa:      p.NomeEmpresa,
		Resolucao:        p.Resolucao,
		URL:              p.URL,
		MotivoAcao:       p.MotivoAcao,
		EmailNotificador: p.EmailNotificador,
	}
	if p.DataEmail == "" {
		comm.DataEmail = requestcontext.Now(ctx)
	} else {
		sent, err := time.Parse(dateLayout, p.DataEmail)
		if err != nil {
			return monitor.Communication{}, dErrors.New(dErrors.CodeBadRequest, "dataEmail must be YYYY-MM-DD")
		}
		comm.DataEmail = sent
	}
	if p.DataDou != "" {
		dou, err := time.Parse(dateLayout, p.DataDou)
		if err != nil {
			return monitor.Communication{}, dErrors.New(dErrors.CodeBadRequest, "dataDou must be YYYY-MM-DD")
		}
		comm.DataDou = &dou
	}
	return comm, nil
}

func (h *Handler) ListComunicacoes(w http.ResponseWriter, r *http.Request) {
	comms, err := h.svc.ListCommunications(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]communicationResponse, 0, len(comms))
	for _, c := range comms {
		out = append(out, toCommunicationResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetComunicacao(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	comm, err := h.svc.GetCommunication(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCommunicationResponse(*comm))
}

func (h *Handler) CreateComunicacao(w http.ResponseWriter, r *http.Request) {
	var payload communicationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	comm, err := payload.toModel(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.svc.CreateCommunication(r.Context(), comm)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCommunicationResponse(*created))
}

func (h *Handler) UpdateComunicacao(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var payload communicationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	comm, err := payload.toModel(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	comm.ID = id
	updated, err := h.svc.UpdateCommunication(r.Context(), comm)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCommunicationResponse(*updated))
}

func (h *Handler) DeleteComunicacao(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteCommunication(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assessmentResponse struct {
	ID          int64             `json:"id"`
	RumorID     int64             `json:"rumorId"`
	Inputs      risk.Inputs       `json:"entradas"`
	Impacto     risk.ImpactoScore `json:"impacto"`
	MatrizRisco risk.MatrizScore  `json:"matriz_risco"`
	CriadoEm    string            `json:"dataCadastro"`
}

func toAssessmentResponse(a monitor.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:          a.ID,
		RumorID:     a.RumorID,
		Inputs:      a.Inputs,
		Impacto:     a.Result.Impacto,
		MatrizRisco: a.Result.Matriz,
		CriadoEm:    a.CriadoEm.Format(time.RFC3339),
	}
}

// AssessRumor computes and persists a risk assessment for one rumor.
func (h *Handler) AssessRumor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var inputs risk.Inputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	assessment, err := h.svc.AssessRumor(r.Context(), id, inputs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAssessmentResponse(*assessment))
}

// ListAvaliacoes returns the persisted assessments of one rumor.
func (h *Handler) ListAvaliacoes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	assessments, err := h.svc.ListAssessments(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]assessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, toAssessmentResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid record id")
	}
	return id, nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), "monitor request failed",
			"error", err.Error(),
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	httputil.WriteError(w, err)
}
