// Package audit implements the best-effort audit trail: an append-only log of
// who changed what, from what state to what state, for every mutation that
// passes the authorization gate.
package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action describes what kind of mutation attempt an entry records.
type Action string

const (
	ActionInsert    Action = "INSERT"
	ActionUpdate    Action = "UPDATE"
	ActionDelete    Action = "DELETE"
	ActionLogin     Action = "LOGIN"
	ActionLoginFail Action = "LOGIN_FAIL"
	ActionError     Action = "ERROR"
)

// Table names the logical entity type affected by a mutation.
// Empty means "no specific table" (stored as NULL).
type Table string

const (
	TableLogin       Table = "LOGIN"
	TableRumorEvento Table = "RUMOR_EVENTO"
	TableComunicacao Table = "COMUNICACAO"
	TableRisco       Table = "RISCO"
)

// Snapshot is the tagged union for before/after state: one structured schema
// per entity kind, keyed by the table it belongs to. RawSnapshot is the
// explicit opaque-bytes fallback for genuinely schema-less payloads.
//
// A nil Snapshot serializes to NULL, not to an empty object.
type Snapshot interface {
	AuditTable() Table
}

// LoginSnapshot captures the audited state of a user account.
type LoginSnapshot struct {
	ID      int64  `json:"id,omitempty"`
	Nome    string `json:"nome,omitempty"`
	Email   string `json:"email,omitempty"`
	Login   string `json:"login,omitempty"`
	Perfil  string `json:"perfil,omitempty"`
	Inativo bool   `json:"inativo,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func (LoginSnapshot) AuditTable() Table { return TableLogin }

// RumorSnapshot captures the audited state of a rumor/event record.
type RumorSnapshot struct {
	ID                   int64  `json:"id,omitempty"`
	IDU                  string `json:"idu,omitempty"`
	Titulo               string `json:"titulo,omitempty"`
	Descricao            string `json:"descricao,omitempty"`
	LocalEvento          string `json:"local_evento,omitempty"`
	NotificadorFonte     string `json:"notificador_fonte,omitempty"`
	DataRecebimento      string `json:"data_recebimento,omitempty"`
	Veracidade           string `json:"veracidade,omitempty"`
	FundamentoVeracidade string `json:"fundamento_veracidade,omitempty"`
	NivelRisco           string `json:"nivel_risco,omitempty"`
	IDPais               int64  `json:"id_pais,omitempty"`
	IDEstado             int64  `json:"id_estado,omitempty"`
	IDCidade             int64  `json:"id_cidade,omitempty"`
	IDNatureza           int64  `json:"id_natureza,omitempty"`
	IDIcmra              int64  `json:"id_icmra,omitempty"`
	IDStatus             int64  `json:"id_status,omitempty"`
}

func (RumorSnapshot) AuditTable() Table { return TableRumorEvento }

// CommunicationSnapshot captures the audited state of a risk communication.
type CommunicationSnapshot struct {
	ID               int64  `json:"id,omitempty"`
	DataEmail        string `json:"data_email,omitempty"`
	AcaoAdotada      string `json:"acao_adotada,omitempty"`
	CNPJ             string `json:"cnpj,omitempty"`
	Categoria        string `json:"categoria,omitempty"`
	Escopo           string `json:"escopo,omitempty"`
	Produto          string `json:"produto,omitempty"`
	Lote             string `json:"lote,omitempty"`
	NomeEmpresa      string `json:"nome_empresa,omitempty"`
	Resolucao        string `json:"resolucao,omitempty"`
	URL              string `json:"url,omitempty"`
	DataDou          string `json:"data_dou,omitempty"`
	MotivoAcao       string `json:"motivo_acao,omitempty"`
	EmailNotificador string `json:"email_notificador,omitempty"`
}

func (CommunicationSnapshot) AuditTable() Table { return TableComunicacao }

// AssessmentSnapshot captures a persisted risk assessment together with the
// scores derived from it.
type AssessmentSnapshot struct {
	RumorID                 int64   `json:"rumor_id,omitempty"`
	Gravidade               int     `json:"gravidade,omitempty"`
	Vulnerabilidade         int     `json:"vulnerabilidade,omitempty"`
	CapacidadeEnfrentamento int     `json:"capacidade_enfrentamento,omitempty"`
	Probabilidade           int     `json:"probabilidade,omitempty"`
	ImpactoValor            float64 `json:"impacto_valor,omitempty"`
	ImpactoClasse           string  `json:"impacto_classe,omitempty"`
	MatrizValor             float64 `json:"matriz_valor,omitempty"`
	MatrizClasse            string  `json:"matriz_classe,omitempty"`
}

func (AssessmentSnapshot) AuditTable() Table { return TableRisco }

// RawSnapshot is the opaque fallback for payloads without a structured schema.
type RawSnapshot struct {
	Table Table
	Data  json.RawMessage
}

func (r RawSnapshot) AuditTable() Table { return r.Table }

func (r RawSnapshot) MarshalJSON() ([]byte, error) {
	if r.Data == nil {
		return []byte("null"), nil
	}
	return r.Data, nil
}

// Entry is an immutable fact describing one mutation attempt. Once appended
// it is never mutated or deleted by this subsystem; corrections are modeled
// as new entries.
type Entry struct {
	ActorID    *int64
	ActorName  *string
	Action     Action
	Table      Table
	RecordID   string
	Before     Snapshot
	After      Snapshot
	OriginIP   string
	RecordedAt time.Time
}

// Actor builds the nullable actor pair from a known user. Failed logins
// against nonexistent accounts carry no actor at all.
func Actor(id int64, name string) (*int64, *string) {
	return &id, &name
}

// CoerceID renders any record identifier as the string the log stores.
// Returns empty (stored as NULL) for nil.
func CoerceID(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
