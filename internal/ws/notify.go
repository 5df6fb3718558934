package ws

import (
	"context"
	"encoding/json"
	"time"

	"talent-bridge/internal/domain/match"
	"talent-bridge/internal/logger"
)

const EventMatchCompleted = "match_completed"

type MatchCompletedEvent struct {
	Type        string   `json:"type"`
	MatchID     int64    `json:"match_id"`
	ProjectID   int64    `json:"project_id"`
	RequestedBy int64    `json:"requested_by"`
	Candidates  int      `json:"candidates"`
	TopUserID   *int64   `json:"top_user_id,omitempty"`
	TopScore    *float64 `json:"top_score,omitempty"`
	Timestamp   string   `json:"timestamp"`
}

// Notifier publishes completed runs to subscribers of the run's project.
type Notifier struct {
	hub *Hub
	log logger.Logger
	now func() time.Time
}

func NewNotifier(hub *Hub, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Notifier{hub: hub, log: log, now: time.Now}
}

// MatchCompleted expects results ordered best first.
func (n *Notifier) MatchCompleted(_ context.Context, run match.Run, results []match.Result) {
	if n == nil || n.hub == nil {
		return
	}

	evt := MatchCompletedEvent{
		Type:        EventMatchCompleted,
		MatchID:     run.ID,
		ProjectID:   run.ProjectID,
		RequestedBy: run.RequestedBy,
		Candidates:  len(results),
		Timestamp:   n.now().UTC().Format(time.RFC3339),
	}
	if len(results) > 0 {
		top := results[0]
		evt.TopUserID = &top.UserID
		evt.TopScore = &top.TotalScore
	}

	b, err := json.Marshal(evt)
	if err != nil {
		n.log.Warn("ws event encode failed", map[string]interface{}{"match_id": run.ID, "error": err})
		return
	}
	n.hub.Publish(run.ProjectID, b)
}
