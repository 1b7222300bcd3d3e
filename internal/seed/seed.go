// Package seed fills an empty database with demo users, groups, posts,
// comments and follows.
package seed

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "yatube-demo"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

type Options struct {
	Users           int
	Groups          int
	PostsPerUser    int
	CommentsPerPost int
	FollowsPerUser  int
}

// Summary counts the rows a run created.
type Summary struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seeder writes through the repositories, so the demo data obeys the same
// constraints as API writes.
type Seeder struct {
	faker    *gofakeit.Faker
	users    repositories.UserRepository
	groups   repositories.GroupRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	follows  repositories.FollowRepository
}

func New(db *gorm.DB, faker *gofakeit.Faker) *Seeder {
	return &Seeder{
		faker:    faker,
		users:    repositories.NewPostgresUserRepository(db),
		groups:   repositories.NewPostgresGroupRepository(db),
		posts:    repositories.NewPostgresPostRepository(db),
		comments: repositories.NewPostgresCommentRepository(db),
		follows:  repositories.NewPostgresFollowRepository(db),
	}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return sum, err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := &models.User{
			Username: fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i+1),
			Email:    s.faker.Email(),
			Password: string(hash),
		}
		if err := s.users.CreateUser(ctx, u); err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		sum.Users++
	}

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		title := fmt.Sprintf("%s %d", s.faker.Company(), i+1)
		g := &models.Group{
			Title:       truncate(title, 100),
			Slug:        truncate(Slugify(title), 50),
			Description: s.faker.Sentence(12),
		}
		if err := s.groups.CreateGroup(ctx, g); err != nil {
			return sum, fmt.Errorf("create group: %w", err)
		}
		groups = append(groups, g)
		sum.Groups++
	}

	var posts []*models.Post
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			p := &models.Post{AuthorID: u.ID, Text: s.faker.Paragraph(1, 3, 12, " ")}
			if len(groups) > 0 && s.faker.Bool() {
				p.GroupID = &groups[s.faker.Number(0, len(groups)-1)].ID
			}
			if err := s.posts.CreatePost(ctx, p); err != nil {
				return sum, fmt.Errorf("create post: %w", err)
			}
			posts = append(posts, p)
			sum.Posts++
		}
	}

	for _, p := range posts {
		for i := 0; i < opts.CommentsPerPost && len(users) > 0; i++ {
			author := users[s.faker.Number(0, len(users)-1)]
			c := &models.Comment{AuthorID: author.ID, PostID: p.ID, Text: s.faker.Sentence(8)}
			if err := s.comments.CreateComment(ctx, c); err != nil {
				return sum, fmt.Errorf("create comment: %w", err)
			}
			sum.Comments++
		}
	}

	for _, u := range users {
		for i := 0; i < opts.FollowsPerUser && len(users) > 1; i++ {
			target := users[s.faker.Number(0, len(users)-1)]
			if target.ID == u.ID {
				continue
			}
			exists, err := s.follows.IsFollowing(ctx, u.ID, target.ID)
			if err != nil {
				return sum, err
			}
			if exists {
				continue
			}
			if err := s.follows.CreateFollow(ctx, &models.Follow{UserID: u.ID, FollowingID: target.ID}); err != nil {
				return sum, fmt.Errorf("create follow: %w", err)
			}
			sum.Follows++
		}
	}

	return sum, nil
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
