package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/blnkfinance/onboard/internal/apierror"
	"github.com/blnkfinance/onboard/model"
)

var documentColumnNames = []string{
	"document_id", "customer_id", "document_type", "path", "file_name", "size", "mime_type", "created_at",
}

func documentScanDest(doc *model.Document) []interface{} {
	return []interface{}{
		&doc.DocumentID, &doc.CustomerID, &doc.DocumentType, &doc.Path, &doc.FileName, &doc.Size, &doc.MimeType, &doc.CreatedAt,
	}
}

func scanDocuments(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(documentScanDest(&doc)...); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// InsertDocuments writes all rows in a single multi-row INSERT.
func (d Datasource) InsertDocuments(ctx context.Context, uow UnitOfWork, docs []model.Document) error {
	if len(docs) == 0 {
		return nil
	}

	width := len(documentColumnNames)
	values := make([]string, len(docs))
	args := make([]interface{}, 0, len(docs)*width)
	for i, doc := range docs {
		values[i] = "(" + placeholderList(i*width+1, width) + ")"
		args = append(args, doc.DocumentID, doc.CustomerID, doc.DocumentType, doc.Path, doc.FileName, doc.Size, doc.MimeType, doc.CreatedAt)
	}

	query := fmt.Sprintf(`INSERT INTO onboard.documents (%s) VALUES %s`,
		columnList("", documentColumnNames), strings.Join(values, ", "))

	if uow == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, queryTimeout)
		defer cancel()
	}
	_, err := d.exec(uow).ExecContext(ctx, query, args...)
	return err
}

func (d Datasource) DeleteDocumentsByType(ctx context.Context, uow UnitOfWork, customerID string, docType model.DocumentType) ([]model.Document, error) {
	rows, err := d.exec(uow).QueryContext(ctx, fmt.Sprintf(`
		DELETE FROM onboard.documents
		WHERE customer_id = $1 AND document_type = $2
		RETURNING %s
	`, columnList("", documentColumnNames)), customerID, docType)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

func (d Datasource) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc model.Document
	err := d.Conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM onboard.documents WHERE document_id = $1
	`, columnList("", documentColumnNames)), documentID).Scan(documentScanDest(&doc)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("document with ID '%s' not found", documentID), err)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes the row and returns it so the caller can clean up its blob.
func (d Datasource) DeleteDocument(ctx context.Context, documentID string) (*model.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc model.Document
	err := d.Conn.QueryRowContext(ctx, fmt.Sprintf(`
		DELETE FROM onboard.documents WHERE document_id = $1
		RETURNING %s
	`, columnList("", documentColumnNames)), documentID).Scan(documentScanDest(&doc)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("document with ID '%s' not found", documentID), err)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d Datasource) ListDocuments(ctx context.Context, afterID string, limit int) ([]model.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := d.Conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM onboard.documents
		WHERE document_id > $1
		ORDER BY document_id
		LIMIT $2
	`, columnList("", documentColumnNames)), afterID, limit)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}
