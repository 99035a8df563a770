package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"dari/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertListing writes l at display position pos.
func (r *Repo) UpsertListing(ctx context.Context, pos int, l domain.Listing) error {
	imgs, err := valJSON(l.Images)
	if err != nil {
		return err
	}
	feats, err := valJSON(l.Features)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertListingSQL,
		l.ID,
		pos,
		l.Title,
		l.City,
		l.Country,
		string(l.Type),
		string(l.Status),
		l.PriceUSD,
		valStr(l.LocalPrice),
		l.Beds,
		l.Baths,
		valStr(l.Size),
		imgs,
		l.Agent.Name,
		l.Agent.Phone,
		l.Agent.Verified,
		feats,
	)
	return err
}

// LoadListings implements domain.ListingSource. Rows are returned as stored;
// validation happens when the dataset is built.
func (r *Repo) LoadListings(ctx context.Context) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, loadListingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		var (
			l                        domain.Listing
			typ, status              string
			localPrice, size         sql.NullString
			imagesJSON, featuresJSON []byte
		)
		if err := rows.Scan(
			&l.ID,
			&l.Title,
			&l.City,
			&l.Country,
			&typ,
			&status,
			&l.PriceUSD,
			&localPrice,
			&l.Beds,
			&l.Baths,
			&size,
			&imagesJSON,
			&l.Agent.Name,
			&l.Agent.Phone,
			&l.Agent.Verified,
			&featuresJSON,
		); err != nil {
			return nil, err
		}
		l.Type = domain.Category(typ)
		l.Status = domain.Status(status)
		l.LocalPrice = localPrice.String
		l.Size = size.String
		if err := json.Unmarshal(imagesJSON, &l.Images); err != nil {
			return nil, fmt.Errorf("listing %s: images: %w", l.ID, err)
		}
		if len(featuresJSON) > 0 {
			if err := json.Unmarshal(featuresJSON, &l.Features); err != nil {
				return nil, fmt.Errorf("listing %s: features: %w", l.ID, err)
			}
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CountListings(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countListingsSQL).Scan(&n)
	return n, err
}

// PruneListings deletes every row whose id is not in keep, in one transaction,
// and reports how many were removed. An empty keep empties the table.
func (r *Repo) PruneListings(ctx context.Context, keep []string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	query, args := deleteAllListingsSQL, []any(nil)
	if len(keep) > 0 {
		query = fmt.Sprintf(deleteListingsNotInSQL, strings.TrimSuffix(strings.Repeat("?,", len(keep)), ","))
		args = make([]any, len(keep))
		for i, id := range keep {
			args[i] = id
		}
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune listings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
