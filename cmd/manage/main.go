// Command manage runs administrative tasks against the configured database:
// schema migration, group management and demo data.
//
//	manage migrate
//	manage create-group -title "Cats" -slug cats -description "All about cats"
//	manage delete-group -slug cats
//	manage seed -users 20 -groups 5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/seed"
	"github.com/anonto42/yatube/backend/internal/serializers"
	"github.com/anonto42/yatube/backend/pkg/config"
	"github.com/anonto42/yatube/backend/validators"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
)

const usageLine = "usage: manage <migrate|create-group|delete-group|seed> [flags]"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code: 0 on success,
// 1 when the command fails and 2 for usage errors.
func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usageLine)
		return 2
	}
	var command func(context.Context, *config.DB, []string) error
	switch args[0] {
	case "migrate":
		command = migrate
	case "create-group":
		command = createGroup
	case "delete-group":
		command = deleteGroup
	case "seed":
		command = seedData
	default:
		fmt.Fprintln(os.Stderr, usageLine)
		return 2
	}

	cfg := config.Load()
	config.SetupLogging(cfg)
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize databases")
		return 1
	}
	defer db.CloseDB()

	err = command(context.Background(), db, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	}
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		for field, msgs := range verr.Fields {
			for _, msg := range msgs {
				log.Error().Str("field", field).Msg(msg)
			}
		}
	}
	log.Error().Err(err).Str("command", args[0]).Msg("Command failed")
	return 1
}

// errUsage marks flags that could not be parsed; the flag set has already
// printed the details.
var errUsage = errors.New("invalid usage")

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func migrate(_ context.Context, db *config.DB, _ []string) error {
	if err := repositories.AutoMigrate(db.SQL); err != nil {
		return err
	}
	log.Info().Msg("Migrations applied.")
	return nil
}

func createGroup(ctx context.Context, db *config.DB, args []string) error {
	fs := flag.NewFlagSet("create-group", flag.ContinueOnError)
	var req models.CreateGroupRequest
	fs.StringVar(&req.Title, "title", "", "group title")
	fs.StringVar(&req.Slug, "slug", "", "group slug")
	fs.StringVar(&req.Description, "description", "", "group description")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	groups := repositories.NewPostgresGroupRepository(db.SQL)
	serializer := serializers.NewGroupSerializer(validators.NewValidator(), groups)
	group, err := serializer.Validate(ctx, &req)
	if err != nil {
		return err
	}
	if err := groups.CreateGroup(ctx, group); err != nil {
		return serializer.ConstraintError(err)
	}
	log.Info().Uint("id", group.ID).Str("slug", group.Slug).Msg("Created group.")
	return nil
}

func deleteGroup(ctx context.Context, db *config.DB, args []string) error {
	fs := flag.NewFlagSet("delete-group", flag.ContinueOnError)
	slug := fs.String("slug", "", "slug of the group to delete")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	groups := repositories.NewPostgresGroupRepository(db.SQL)
	group, err := groups.GetGroupBySlug(ctx, *slug)
	if err != nil {
		return err
	}
	if err := groups.DeleteGroup(ctx, group.ID); err != nil {
		return err
	}
	log.Info().Uint("id", group.ID).Str("slug", group.Slug).Msg("Deleted group; its posts are now ungrouped.")
	return nil
}

func seedData(ctx context.Context, db *config.DB, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	var opts seed.Options
	fs.IntVar(&opts.Users, "users", 10, "number of users")
	fs.IntVar(&opts.Groups, "groups", 3, "number of groups")
	fs.IntVar(&opts.PostsPerUser, "posts", 5, "posts per user")
	fs.IntVar(&opts.CommentsPerPost, "comments", 2, "comments per post")
	fs.IntVar(&opts.FollowsPerUser, "follows", 3, "follow attempts per user")
	randSeed := fs.Int64("rand", time.Now().UnixNano(), "random seed")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	start := time.Now()
	sum, err := seed.New(db.SQL, gofakeit.New(*randSeed)).Run(ctx, opts)
	if err != nil {
		return err
	}
	log.Info().
		Int("users", sum.Users).
		Int("groups", sum.Groups).
		Int("posts", sum.Posts).
		Int("comments", sum.Comments).
		Int("follows", sum.Follows).
		Dur("took", time.Since(start)).
		Str("password", seed.DefaultPassword).
		Msg("Seeded demo data.")
	return nil
}
