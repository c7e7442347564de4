package db

import (
	"context"
	"fmt"
)

type InsertAPIRequestParams struct {
	Method         string
	URL            string
	RequestBody    string
	ResponseStatus int64
	ResponseBody   string
	Error          string
	DurationMs     int64
}

func (s *Store) InsertAPIRequest(ctx context.Context, arg InsertAPIRequestParams) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO api_requests (method, url, request_body, response_status, response_body, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Method, arg.URL, arg.RequestBody, arg.ResponseStatus, arg.ResponseBody, arg.Error, arg.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("inserting api request: %w", err)
	}
	return nil
}
