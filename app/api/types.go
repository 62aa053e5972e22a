package api

import (
	"time"

	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
	"github.com/poliwatch/tramita/app/tasks"
)

type Handler struct {
	sourceCache    *legis.SourceCache
	sourceRepo     database.SourceRepository
	initiativeRepo database.InitiativeRepository
	lawRepo        database.LawRepository
	runRepo        database.RunRepository
	scheduler      tasks.TaskSchedulerInterface
}

type edgeResponse struct {
	To     string  `json:"to"`
	Kind   string  `json:"kind"`
	Label  string  `json:"label,omitempty"`
	Weight float64 `json:"weight"`
}

type eventResponse struct {
	Label       string     `json:"label,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Description string     `json:"description,omitempty"`
}

type flowResponse struct {
	Key         string          `json:"key"`
	Expediente  string          `json:"expediente,omitempty"`
	LawNumber   string          `json:"law_number,omitempty"`
	Title       string          `json:"title,omitempty"`
	FinalStatus string          `json:"final_status,omitempty"`
	Stage       string          `json:"stage,omitempty"`
	Events      []eventResponse `json:"events"`
}
