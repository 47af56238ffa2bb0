package main

import (
	"context"
	"errors"

	"github.com/alejandrodnm/calcdesk/internal/adapters/notify"
	"github.com/alejandrodnm/calcdesk/internal/adapters/remote"
	"github.com/alejandrodnm/calcdesk/internal/domain"
)

// runRemote ejecuta -list, -calc o -history contra un servidor calcdesk.
func runRemote(ctx context.Context, client *remote.Client, console *notify.Console,
	list bool, calcID string, in map[string]float64, history bool) error {
	switch {
	case list:
		calcs, err := client.List(ctx)
		if err != nil {
			return err
		}
		console.PrintCatalog(calcs)
	case calcID != "":
		calc, err := client.Calculate(ctx, calcID, domain.Values(in))
		if err != nil {
			return err
		}
		return console.Present(ctx, calc)
	case history:
		calcs, err := client.History(ctx, 24)
		if err != nil {
			return err
		}
		console.PrintHistory(calcs)
	default:
		return errors.New("-remote needs one of -list, -calc or -history")
	}
	return nil
}
