// Command seed fills the configured database with deterministic sample
// users, posts and comments for local development.
//
//	go run ./cmd/seed --users 5 --posts 3 --comments 2 --reset
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/config"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/repo"
	"github.com/tbourn/go-board-backend/internal/sysutil"
)

// seedPassword is the password of every seeded account.
const seedPassword = "password123"

type options struct {
	users    int
	posts    int // per user
	comments int // per post
	reset    bool
}

type summary struct {
	users, posts, comments int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opt options
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Fill the board database with sample users, posts and comments",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := run(cmd.Context(), opt)
			if err != nil {
				log.Error().Err(err).Msg("seed failed")
			}
			return err
		},
	}
	f := cmd.Flags()
	f.IntVar(&opt.users, "users", 5, "number of users")
	f.IntVar(&opt.posts, "posts", 3, "posts per user")
	f.IntVar(&opt.comments, "comments", 2, "comments per post")
	f.BoolVar(&opt.reset, "reset", false, "delete all rows first")
	return cmd
}

func run(ctx context.Context, opt options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	db, err := repo.Open(cfg.DB, cfg.LogQueries())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	sum, err := seed(ctx, db, auth.NewHasher(cfg.BcryptCost), opt)
	if err != nil {
		return err
	}
	log.Info().
		Int("users", sum.users).
		Int("posts", sum.posts).
		Int("comments", sum.comments).
		Str("password", seedPassword).
		Msg("seed complete")
	return nil
}

// seed inserts the sample data. Users whose email already exists are left
// alone together with their content, so running it twice is harmless.
func seed(ctx context.Context, db *gorm.DB, hasher auth.Hasher, opt options) (summary, error) {
	var sum summary
	if opt.reset {
		if err := reset(ctx, db); err != nil {
			return sum, err
		}
	}

	digest, err := hasher.Hash(seedPassword)
	if err != nil {
		return sum, err
	}

	for i := 1; i <= opt.users; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		exists, err := repo.EmailExists(ctx, db, email)
		if err != nil {
			return sum, err
		}
		if exists {
			continue
		}

		name := fmt.Sprintf("사용자%d", i)
		u := &domain.User{Email: email, Name: &name, Password: digest}
		if err := repo.CreateUser(ctx, db, u); err != nil {
			return sum, fmt.Errorf("user %s: %w", email, err)
		}
		sum.users++

		for j := 1; j <= opt.posts; j++ {
			p := &domain.Post{
				Title:     fmt.Sprintf("%s의 게시글 %d", name, j),
				Content:   fmt.Sprintf("%s이 작성한 %d번째 글입니다.", name, j),
				Published: j%2 == 1,
				AuthorID:  u.ID,
			}
			if err := repo.CreatePost(ctx, db, p); err != nil {
				return sum, fmt.Errorf("post %d of %s: %w", j, email, err)
			}
			sum.posts++

			for k := 1; k <= opt.comments; k++ {
				c := &domain.Comment{
					Content:  fmt.Sprintf("댓글 %d", k),
					PostID:   p.ID,
					AuthorID: u.ID,
				}
				if err := repo.CreateComment(ctx, db, c); err != nil {
					return sum, fmt.Errorf("comment %d on post %d: %w", k, p.ID, err)
				}
				sum.comments++
			}
		}
	}
	return sum, nil
}

// reset deletes every comment, post and user, children first.
func reset(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&domain.Comment{}, &domain.Post{}, &domain.User{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
