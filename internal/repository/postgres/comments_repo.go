package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blog-publishing-api/internal/models"
)

type commentsRepo struct{ pool *pgxpool.Pool }

const commentColumns = `c.id, c.content, c.post_id, p.title, c.author_id, u.username, c.created_at`

func scanComment(row pgx.Row) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.Content, &c.Post.ID, &c.Post.Title,
		&c.Author.ID, &c.Author.Username, &c.CreatedAt)
	return c, err
}

func (r *commentsRepo) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments(id, content, post_id, author_id) VALUES($1,$2,$3,$4)`,
		c.ID, c.Content, c.Post.ID, c.Author.ID,
	)
	if err != nil {
		return models.Comment{}, mapErr(err, "comment not found")
	}
	return r.GetByID(ctx, c.ID)
}

func (r *commentsRepo) GetByID(ctx context.Context, id string) (models.Comment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+`
		   FROM comments c
		   JOIN posts p ON p.id = c.post_id
		   JOIN users u ON u.id = c.author_id
		  WHERE c.id=$1`, id)
	c, err := scanComment(row)
	if err != nil {
		return models.Comment{}, mapErr(err, "comment not found")
	}
	return c, nil
}

func (r *commentsRepo) List(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int64, error) {
	// postID "" lists across all posts; $1 doubles as the filter toggle.
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE ($1 = '' OR post_id::text = $1)`, postID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+`
		   FROM comments c
		   JOIN posts p ON p.id = c.post_id
		   JOIN users u ON u.id = c.author_id
		  WHERE ($1 = '' OR c.post_id::text = $1)
		  ORDER BY c.created_at DESC, c.id
		  LIMIT $2 OFFSET $3`, postID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *commentsRepo) UpdateContent(ctx context.Context, id, content string) (models.Comment, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET content=$2 WHERE id=$1`, id, content)
	if err != nil {
		return models.Comment{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Comment{}, mapErr(pgx.ErrNoRows, "comment not found")
	}
	return r.GetByID(ctx, id)
}

func (r *commentsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "comment not found")
	}
	return nil
}

func (r *commentsRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM comments WHERE post_id=$1`, postID).Scan(&n)
	return n, err
}
