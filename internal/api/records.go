package api

import (
	"context"

	"github.com/balkashynov/punch/internal/models"
)

// Filter narrows a read to one date and/or user; empty fields are not sent
type Filter struct {
	Date     string
	UserName string
}

// Read fetches records, optionally filtered
func (c *Client) Read(ctx context.Context, f Filter) ([]models.Record, error) {
	decoded, err := c.get(ctx, "read", map[string]string{
		"date":     f.Date,
		"userName": f.UserName,
	})
	if err != nil {
		return nil, err
	}
	return NormalizeRecords(envelopeList(decoded, "data", "sessions")), nil
}

// Create stores a new record and returns the id the store assigned, if it sent one
func (c *Client) Create(ctx context.Context, r models.Record) (string, error) {
	params := r.Params()
	delete(params, "recordId")
	decoded, err := c.post(ctx, "create", params)
	if err != nil {
		return "", err
	}
	return responseRecordID(decoded), nil
}

// Update overwrites the record with the same recordId. Every field is sent,
// empty ones included, so cleared values are cleared in the store too.
func (c *Client) Update(ctx context.Context, r models.Record) error {
	_, err := c.postAll(ctx, "update", r.Fields())
	return err
}

// Delete removes a record by id
func (c *Client) Delete(ctx context.Context, recordID string) error {
	_, err := c.post(ctx, "delete", map[string]string{"recordId": recordID})
	return err
}

// DeleteFrom removes a row by id from a named sheet of the auxiliary store
func (c *Client) DeleteFrom(ctx context.Context, recordID, sheet string) error {
	_, err := c.post(ctx, "delete", map[string]string{"recordId": recordID, "sheetName": sheet})
	return err
}

func responseRecordID(decoded any) string {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return ""
	}
	if id := pick(obj, recordIDKeys); id != "" {
		return id
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return pick(data, recordIDKeys)
	}
	return ""
}
