package command

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/http/auth"
)

type tokenCmd struct {
	admin bool
	ttl   time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue an API bearer token" }
func (*tokenCmd) Usage() string {
	return `libro token [-admin] [-ttl <duration>]

  Signs a token with AUTH_SECRET. The token is scoped to the company selected
  with -company, or to every company with -admin.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.admin, "admin", false, "Issue a token that is valid for every company.")
	f.DurationVar(&c.ttl, "ttl", 24*time.Hour, "Token lifetime.")
}

func (c *tokenCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failf("%v", err)
	}

	a := auth.New(cfg.Auth.Secret)
	if a == nil {
		return failf("AUTH_SECRET is not set")
	}

	companyID := uuid.Nil

	if !c.admin {
		s, err := open(ctx)
		if err != nil {
			return failf("%v", err)
		}
		defer s.Close()

		companyID = s.company.ID
	}

	token, err := a.Issue(companyID, c.ttl)
	if err != nil {
		return failf("signing token: %v", err)
	}

	fmt.Println(token)

	return subcommands.ExitSuccess
}
