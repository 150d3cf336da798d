package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/lankaspa/portal/pkg/errors"

	"github.com/lankaspa/portal/internal/model"
)

// SubmitRegistration sends the complete wizard payload as one multipart
// request: text fields as key/value pairs, attachments as named binary parts
// with filename and content type. Exactly one network call is made; there is
// no automatic retry.
func (c *Client) SubmitRegistration(ctx context.Context, fields model.RegistrationFields, attachments []*model.Attachment) error {
	start := time.Now()

	req := c.http.R().SetContext(ctx)

	fieldMap, err := fieldValues(fields)
	if err != nil {
		return fmt.Errorf("failed to flatten registration fields: %w", err)
	}
	req.SetFormData(fieldMap)

	for _, att := range attachments {
		req.SetMultipartField(
			string(att.Kind),
			att.Filename,
			att.MimeType,
			bytes.NewReader(att.Data),
		)
	}

	resp, err := req.Post("/registrations")
	c.observe("submit_registration", start, err == nil && resp.IsSuccess())
	if err != nil {
		c.logger.Warn().Err(err).Msg("registration submission unreachable")
		return apperrors.UpstreamUnreachable(err)
	}

	return c.decode("submit_registration", resp, nil)
}

// fieldValues flattens the closed field struct into the multipart form keys
// the upstream expects, reusing the struct's json names.
func fieldValues(fields model.RegistrationFields) (map[string]string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
