package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
)

// ==================== Product Store ====================

// productStore implements driven.ProductStore.
type productStore struct {
	store *Store
}

var _ driven.ProductStore = (*productStore)(nil)

const productColumns = `p.id, p.company_id, c.name, c.type, p.title, p.content, p.keywords, p.category,
	p.file_path, p.file_name, p.file_hash, p.file_mod_time, p.premium_amount, p.coverage_period,
	p.structured_data, p.version, p.created_at, p.updated_at`

const productFrom = `coverage_products p JOIN companies c ON c.id = p.company_id`

// Create stores a new product and its child rows in one transaction.
func (s *productStore) Create(ctx context.Context, p *domain.Product, amounts []domain.CoverageAmount, conditions []domain.SpecialCondition) error {
	now := s.store.now()

	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO coverage_products (
				company_id, title, content, keywords, category,
				file_path, file_name, file_hash, file_mod_time,
				premium_amount, coverage_period, structured_data,
				version, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		`,
			p.CompanyID, p.Title, p.Content, p.Keywords, nullableString(p.Category),
			p.FilePath, p.FileName, p.FileHash, nullableTime(p.FileModTime),
			nullableFloat(p.PremiumAmount), nullableString(p.CoveragePeriod), p.StructuredDataJSON,
			formatTime(now), formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("inserting product: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading product id: %w", err)
		}

		if err := replaceChildren(ctx, tx, id, amounts, conditions); err != nil {
			return err
		}
		if err := replaceKeywords(ctx, tx, id, p.Keywords); err != nil {
			return err
		}

		p.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	p.Version = 1
	p.CreatedAt = now.UTC()
	p.UpdatedAt = now.UTC()
	return nil
}

// Update applies a partial update in one transaction.
func (s *productStore) Update(ctx context.Context, id int64, update domain.ProductUpdate) error {
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM `+productFrom+` WHERE p.id = ?`, id)
		p, err := scanProduct(row)
		if err != nil {
			return notFound(err)
		}

		if update.Title != nil {
			p.Title = *update.Title
		}
		if update.Content != nil {
			p.Content = *update.Content
		}
		if update.Keywords != nil {
			p.Keywords = *update.Keywords
		}
		if update.Category != nil {
			p.Category = update.Category
		}
		if sd := update.StructuredData; sd != nil {
			encoded, err := sd.Encode()
			if err != nil {
				return fmt.Errorf("encoding structured data: %w", err)
			}
			p.StructuredDataJSON = encoded
			p.PremiumAmount = sd.PremiumAmount
			p.CoveragePeriod = sd.CoveragePeriod
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE coverage_products SET
				title = ?, content = ?, keywords = ?, category = ?,
				premium_amount = ?, coverage_period = ?, structured_data = ?,
				version = version + 1, updated_at = ?
			WHERE id = ?
		`,
			p.Title, p.Content, p.Keywords, nullableString(p.Category),
			nullableFloat(p.PremiumAmount), nullableString(p.CoveragePeriod), p.StructuredDataJSON,
			formatTime(s.store.now()), id,
		)
		if err != nil {
			return fmt.Errorf("updating product: %w", err)
		}

		if sd := update.StructuredData; sd != nil {
			if err := replaceChildren(ctx, tx, id, sd.Amounts(), sd.Conditions()); err != nil {
				return err
			}
		}
		if update.Keywords != nil {
			if err := replaceKeywords(ctx, tx, id, p.Keywords); err != nil {
				return err
			}
		}
		return nil
	})
}

// replaceChildren deletes every amount and condition of the product and
// inserts the given ones.
func replaceChildren(ctx context.Context, tx *sql.Tx, id int64, amounts []domain.CoverageAmount, conditions []domain.SpecialCondition) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM coverage_amounts WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("clearing coverage amounts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM special_conditions WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("clearing special conditions: %w", err)
	}

	for _, a := range amounts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO coverage_amounts (product_id, category, amount, condition_text) VALUES (?, ?, ?, ?)`,
			id, a.Category, a.Amount, nullableString(a.Condition))
		if err != nil {
			return fmt.Errorf("inserting coverage amount: %w", err)
		}
	}

	for _, c := range conditions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO special_conditions (product_id, name, detail) VALUES (?, ?, ?)`,
			id, c.Name, c.Detail)
		if err != nil {
			return fmt.Errorf("inserting special condition: %w", err)
		}
	}
	return nil
}

// replaceKeywords rebuilds the keyword index of the product.
func replaceKeywords(ctx context.Context, tx *sql.Tx, id int64, keywords string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_keywords WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("clearing keywords: %w", err)
	}
	for _, k := range domain.SplitKeywords(keywords) {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO product_keywords (product_id, keyword) VALUES (?, ?)`, id, k)
		if err != nil {
			return fmt.Errorf("indexing keyword: %w", err)
		}
	}
	return nil
}

// Get retrieves a product by ID.
func (s *productStore) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM `+productFrom+` WHERE p.id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Amounts returns the coverage amounts of a product.
func (s *productStore) Amounts(ctx context.Context, productID int64) ([]domain.CoverageAmount, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, product_id, category, amount, condition_text
		FROM coverage_amounts WHERE product_id = ? ORDER BY id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("querying coverage amounts: %w", err)
	}
	defer rows.Close()

	var out []domain.CoverageAmount
	for rows.Next() {
		var (
			a    domain.CoverageAmount
			cond sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Category, &a.Amount, &cond); err != nil {
			return nil, err
		}
		a.Condition = stringPtr(cond)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Conditions returns the special conditions of a product.
func (s *productStore) Conditions(ctx context.Context, productID int64) ([]domain.SpecialCondition, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, product_id, name, detail
		FROM special_conditions WHERE product_id = ? ORDER BY id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("querying special conditions: %w", err)
	}
	defer rows.Close()

	var out []domain.SpecialCondition
	for rows.Next() {
		var c domain.SpecialCondition
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Name, &c.Detail); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListByFile returns products extracted from the file path.
func (s *productStore) ListByFile(ctx context.Context, filePath string) ([]domain.Product, error) {
	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM `+productFrom+` WHERE p.file_path = ? ORDER BY p.id`, filePath)
}

// List returns products ordered by company name then title.
func (s *productStore) List(ctx context.Context, companyType domain.CompanyType) ([]domain.Product, error) {
	return s.queryProducts(ctx, `
		SELECT `+productColumns+` FROM `+productFrom+`
		WHERE (? = '' OR c.type = ?)
		ORDER BY c.name, p.title, p.id
	`, string(companyType), string(companyType))
}

// Search returns one page of matching products.
func (s *productStore) Search(ctx context.Context, q domain.ProductQuery) (*domain.SearchResult, error) {
	var (
		where []string
		args  []any
	)

	if q.CompanyType != "" {
		where = append(where, "c.type = ?")
		args = append(args, string(q.CompanyType))
	}
	if len(q.CompanyIDs) > 0 {
		where = append(where, "p.company_id IN ("+placeholders(len(q.CompanyIDs))+")")
		for _, id := range q.CompanyIDs {
			args = append(args, id)
		}
	}
	if len(q.Categories) > 0 {
		where = append(where, "p.category IN ("+placeholders(len(q.Categories))+")")
		for _, c := range q.Categories {
			args = append(args, c)
		}
	}
	if len(q.Keywords) > 0 {
		where = append(where, `EXISTS (SELECT 1 FROM product_keywords k
			WHERE k.product_id = p.id AND k.keyword IN (`+placeholders(len(q.Keywords))+`))`)
		for _, k := range q.Keywords {
			args = append(args, k)
		}
	}

	pattern := "%" + escapeLike(q.Text) + "%"
	if q.Text != "" {
		where = append(where, `(p.title LIKE ? ESCAPE '\' OR p.keywords LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+productFrom+whereSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	orderSQL := " ORDER BY p.updated_at DESC, p.id DESC"
	pageArgs := append([]any(nil), args...)
	if q.Text != "" {
		orderSQL = ` ORDER BY CASE
			WHEN p.title LIKE ? ESCAPE '\' THEN 0
			WHEN p.keywords LIKE ? ESCAPE '\' THEN 1
			ELSE 2 END, p.updated_at DESC, p.id DESC`
		pageArgs = append(pageArgs, pattern, pattern)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	pageArgs = append(pageArgs, limit, max(q.Offset, 0))

	products, err := s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM `+productFrom+whereSQL+orderSQL+` LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	return &domain.SearchResult{Products: products, TotalCount: total}, nil
}

// Categories returns the distinct non-empty categories, sorted.
func (s *productStore) Categories(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT category FROM coverage_products
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category
	`)
}

// Keywords returns the distinct indexed keywords, sorted.
func (s *productStore) Keywords(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `SELECT DISTINCT keyword FROM product_keywords ORDER BY keyword`)
}

// CategoryOffers returns products covering the category, largest amount first.
func (s *productStore) CategoryOffers(ctx context.Context, category string, companyType domain.CompanyType) ([]domain.CategoryOffer, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+productColumns+`, SUM(a.amount) AS total
		FROM `+productFrom+`
		JOIN coverage_amounts a ON a.product_id = p.id
		WHERE a.category = ? AND a.amount > 0 AND (? = '' OR c.type = ?)
		GROUP BY p.id
		ORDER BY total DESC, p.updated_at DESC, p.id DESC
	`, category, string(companyType), string(companyType))
	if err != nil {
		return nil, fmt.Errorf("querying category offers: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryOffer
	for rows.Next() {
		var total float64
		p, err := scanProduct(rows, &total)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CategoryOffer{Product: *p, Category: category, Amount: total})
	}
	return out, rows.Err()
}

// RankingRows returns every product joined with its latest snapshot.
func (s *productStore) RankingRows(ctx context.Context, companyType domain.CompanyType) ([]domain.RankedProduct, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+productColumns+`,
			s.id, s.coverage_score, s.premium_score, s.special_condition_score, s.total_score, s.calculated_at
		FROM `+productFrom+`
		LEFT JOIN score_snapshots s ON s.id = (
			SELECT id FROM score_snapshots
			WHERE product_id = p.id
			ORDER BY calculated_at DESC, id DESC
			LIMIT 1
		)
		WHERE (? = '' OR c.type = ?)
		ORDER BY p.id
	`, string(companyType), string(companyType))
	if err != nil {
		return nil, fmt.Errorf("querying ranking rows: %w", err)
	}
	defer rows.Close()

	var out []domain.RankedProduct
	for rows.Next() {
		var (
			snapID                               sql.NullInt64
			coverage, premium, conditions, total sql.NullFloat64
			calculatedAt                         sql.NullString
		)
		p, err := scanProduct(rows, &snapID, &coverage, &premium, &conditions, &total, &calculatedAt)
		if err != nil {
			return nil, err
		}

		r := domain.RankedProduct{Product: *p}
		if snapID.Valid {
			at, err := parseTime(calculatedAt.String)
			if err != nil {
				return nil, err
			}
			r.Score = &domain.ScoreSnapshot{
				ID:                    snapID.Int64,
				ProductID:             p.ID,
				CoverageScore:         coverage.Float64,
				PremiumScore:          premium.Float64,
				SpecialConditionScore: conditions.Float64,
				TotalScore:            total.Float64,
				CalculatedAt:          at,
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DuplicateGroups returns every (company, title) group with more than one product.
func (s *productStore) DuplicateGroups(ctx context.Context) ([]domain.DuplicateGroup, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT p.company_id, p.title, p.id
		FROM coverage_products p
		JOIN (
			SELECT company_id, title FROM coverage_products
			GROUP BY company_id, title
			HAVING COUNT(*) > 1
		) d ON d.company_id = p.company_id AND d.title = p.title
		ORDER BY p.company_id, p.title, p.updated_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying duplicate groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.DuplicateGroup
	for rows.Next() {
		var (
			companyID, id int64
			title         string
		)
		if err := rows.Scan(&companyID, &title, &id); err != nil {
			return nil, err
		}
		n := len(groups)
		if n == 0 || groups[n-1].CompanyID != companyID || groups[n-1].Title != title {
			groups = append(groups, domain.DuplicateGroup{CompanyID: companyID, Title: title})
			n++
		}
		groups[n-1].ProductIDs = append(groups[n-1].ProductIDs, id)
	}
	return groups, rows.Err()
}

// Delete removes a product and everything attached to it in one transaction.
func (s *productStore) Delete(ctx context.Context, id int64) error {
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		n, err := deleteProducts(ctx, tx, "id = ?", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// DeleteByFile removes every product extracted from the file path.
func (s *productStore) DeleteByFile(ctx context.Context, filePath string) (int, error) {
	var n int
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = deleteProducts(ctx, tx, "file_path = ?", filePath)
		return err
	})
	return n, err
}

// DeleteAll removes every product.
func (s *productStore) DeleteAll(ctx context.Context) (int, error) {
	var n int
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = deleteProducts(ctx, tx, "1 = 1")
		return err
	})
	return n, err
}

// deleteProducts removes matching products and their dependent rows.
// Dependents are deleted explicitly so the result does not hinge on the
// foreign_keys pragma.
func deleteProducts(ctx context.Context, tx *sql.Tx, where string, args ...any) (int, error) {
	selector := `SELECT id FROM coverage_products WHERE ` + where
	for _, table := range []string{"score_snapshots", "coverage_amounts", "special_conditions", "product_keywords"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE product_id IN (`+selector+`)`, args...); err != nil {
			return 0, fmt.Errorf("deleting %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM coverage_products WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting products: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted products: %w", err)
	}
	return int(n), nil
}

func (s *productStore) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *productStore) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// scanProduct scans productColumns followed by any extra destinations.
func scanProduct(row rowScanner, extra ...any) (*domain.Product, error) {
	var (
		p                    domain.Product
		companyType          string
		category             sql.NullString
		fileModTime          sql.NullString
		premium              sql.NullFloat64
		period               sql.NullString
		createdAt, updatedAt string
	)

	dest := []any{
		&p.ID, &p.CompanyID, &p.CompanyName, &companyType, &p.Title, &p.Content, &p.Keywords, &category,
		&p.FilePath, &p.FileName, &p.FileHash, &fileModTime, &premium, &period,
		&p.StructuredDataJSON, &p.Version, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.CompanyType = domain.CompanyType(companyType)
	p.Category = stringPtr(category)
	p.PremiumAmount = floatPtr(premium)
	p.CoveragePeriod = stringPtr(period)

	var err error
	if fileModTime.Valid {
		t, err := parseTime(fileModTime.String)
		if err != nil {
			return nil, err
		}
		p.FileModTime = &t
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
