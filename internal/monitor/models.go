// Package monitor holds the surveillance records the service keeps: rumors
// and events under monitoring, risk communications, and persisted risk
// assessments.
package monitor

import (
	"fmt"
	"time"

	"vigirisco/internal/risk"
)

// Rumor is one rumor or event under monitoring. NivelRisco is a reporting
// band assigned when an assessment is persisted; the CRUD paths never derive
// it themselves.
type Rumor struct {
	ID                   int64
	IDU                  string
	Titulo               string
	Descricao            string
	LocalEvento          string
	NotificadorFonte     string
	DataRecebimento      time.Time
	Veracidade           string
	FundamentoVeracidade string
	NivelRisco           string
	IDPais               *int64
	IDEstado             *int64
	IDCidade             *int64
	IDNatureza           *int64
	IDIcmra              *int64
	IDStatus             int64
	CriadoPor            int64
	CriadoEm             time.Time
}

// StatusEmMonitoramento is the initial status of every new rumor.
const StatusEmMonitoramento int64 = 1

// NewIDU derives the human-readable record identifier from the creation
// timestamp and the assigned primary key. It is distinct from the primary
// key and shown to analysts instead of it.
func NewIDU(createdAt time.Time, id int64) string {
	return fmt.Sprintf("RUM-%s-%d", createdAt.UTC().Format("20060102150405"), id)
}

// Communication is one risk communication record. Communications are audited
// but never classified.
type Communication struct {
	ID               int64
	DataEmail        time.Time
	AcaoAdotada      string
	CNPJ             string
	Categoria        string
	Escopo           string
	Produto          string
	Lote             string
	NomeEmpresa      string
	Resolucao        string
	URL              string
	DataDou          *time.Time
	MotivoAcao       string
	EmailNotificador string
	CriadoPor        int64
	CriadoEm         time.Time
}

// Assessment is one persisted risk assessment of a rumor, carrying both the
// ordinal inputs and the scores derived from them at assessment time.
type Assessment struct {
	ID        int64
	RumorID   int64
	Inputs    risk.Inputs
	Result    risk.Result
	CriadoPor int64
	CriadoEm  time.Time
}
