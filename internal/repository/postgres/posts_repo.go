package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blog-publishing-api/internal/models"
)

type postsRepo struct{ pool *pgxpool.Pool }

const postColumns = `p.id, p.title, p.content, p.tags, p.author_id, u.username, p.created_at, p.updated_at`

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	var tags []byte
	err := row.Scan(&p.ID, &p.Title, &p.Content, &tags,
		&p.Author.ID, &p.Author.Username, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Post{}, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return models.Post{}, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (r *postsRepo) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return models.Post{}, err
	}
	if p.Tags == nil {
		tags = []byte("[]")
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO posts(id, title, content, tags, author_id) VALUES($1,$2,$3,$4,$5)`,
		p.ID, p.Title, p.Content, tags, p.Author.ID,
	)
	if err != nil {
		return models.Post{}, mapErr(err, "post not found")
	}
	return r.GetByID(ctx, p.ID)
}

func (r *postsRepo) GetByID(ctx context.Context, id string) (models.Post, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+`
		   FROM posts p JOIN users u ON u.id = p.author_id
		  WHERE p.id=$1`, id)
	p, err := scanPost(row)
	if err != nil {
		return models.Post{}, mapErr(err, "post not found")
	}
	return p, nil
}

func (r *postsRepo) List(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+`
		   FROM posts p JOIN users u ON u.id = p.author_id
		  ORDER BY p.created_at DESC, p.id
		  LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *postsRepo) Update(ctx context.Context, id string, upd models.PostUpdate) (models.Post, error) {
	var tags []byte
	if upd.Tags != nil {
		var err error
		tags, err = json.Marshal(upd.Tags)
		if err != nil {
			return models.Post{}, err
		}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET
		   title      = COALESCE($2, title),
		   content    = COALESCE($3, content),
		   tags       = COALESCE($4, tags),
		   updated_at = now()
		 WHERE id=$1`,
		id, upd.Title, upd.Content, tags,
	)
	if err != nil {
		return models.Post{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Post{}, mapErr(pgx.ErrNoRows, "post not found")
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade removes the post and its comments atomically; the caller
// never observes orphaned comments.
func (r *postsRepo) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id=$1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "post not found")
	}
	return tx.Commit(ctx)
}
