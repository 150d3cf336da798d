package apiclient

import (
	"context"
	"fmt"

	"github.com/lankaspa/portal/internal/model"
)

// ListSpas fetches the full spa collection.
func (c *Client) ListSpas(ctx context.Context) ([]model.Spa, error) {
	var spas []model.Spa
	if err := c.getJSON(ctx, "list_spas", "/spas", nil, &spas); err != nil {
		return nil, err
	}
	return spas, nil
}

// ListTherapists fetches therapists; spaID narrows to one facility when
// non-empty.
func (c *Client) ListTherapists(ctx context.Context, spaID string) ([]model.Therapist, error) {
	var query map[string]string
	if spaID != "" {
		query = map[string]string{"spa_id": spaID}
	}

	var therapists []model.Therapist
	if err := c.getJSON(ctx, "list_therapists", "/therapists", query, &therapists); err != nil {
		return nil, err
	}
	return therapists, nil
}

type statusTransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// TransitionSpaStatus asks the upstream to move a spa to a new lifecycle
// status. Callers refetch the list afterwards; nothing is mutated locally.
func (c *Client) TransitionSpaStatus(ctx context.Context, id string, status model.SpaStatus, reason string) error {
	path := fmt.Sprintf("/spas/%s/status", id)
	return c.postJSON(ctx, "spa_status", path, statusTransitionRequest{
		Status: string(status),
		Reason: reason,
	}, nil)
}

// TransitionTherapistStatus asks the upstream to move a therapist to a new
// lifecycle status.
func (c *Client) TransitionTherapistStatus(ctx context.Context, id string, status model.TherapistStatus, reason string) error {
	path := fmt.Sprintf("/therapists/%s/status", id)
	return c.postJSON(ctx, "therapist_status", path, statusTransitionRequest{
		Status: string(status),
		Reason: reason,
	}, nil)
}
