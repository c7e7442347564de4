package db

import (
	"context"
	"fmt"
	"time"
)

type SwapRecord struct {
	ID         int64     `json:"id"`
	ChainID    int64     `json:"chainId"`
	FromSymbol string    `json:"fromSymbol"`
	ToSymbol   string    `json:"toSymbol"`
	FromAmount string    `json:"fromAmount"`
	ToAmount   string    `json:"toAmount"`
	TxHash     string    `json:"txHash"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type InsertSwapParams struct {
	ChainID    int64
	FromSymbol string
	ToSymbol   string
	FromAmount string
	ToAmount   string
	TxHash     string
	Status     string
}

func (s *Store) InsertSwap(ctx context.Context, arg InsertSwapParams) (int64, error) {
	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO swaps (chain_id, from_symbol, to_symbol, from_amount, to_amount, tx_hash, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ChainID, arg.FromSymbol, arg.ToSymbol, arg.FromAmount, arg.ToAmount, arg.TxHash, arg.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting swap: %w", err)
	}
	return result.LastInsertId()
}

// ListSwaps returns the most recent swaps, newest first.
func (s *Store) ListSwaps(ctx context.Context, limit int64) ([]SwapRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, chain_id, from_symbol, to_symbol, from_amount, to_amount, tx_hash, status, created_at
		 FROM swaps ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing swaps: %w", err)
	}
	defer rows.Close()

	var swaps []SwapRecord
	for rows.Next() {
		var r SwapRecord
		if err := rows.Scan(&r.ID, &r.ChainID, &r.FromSymbol, &r.ToSymbol, &r.FromAmount, &r.ToAmount, &r.TxHash, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning swap: %w", err)
		}
		swaps = append(swaps, r)
	}
	return swaps, rows.Err()
}
