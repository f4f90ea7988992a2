package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/aaveggupta/dhandiary/infra/initializer"
	"github.com/aaveggupta/dhandiary/pkg/app"
	"github.com/aaveggupta/dhandiary/pkg/config"
	"github.com/aaveggupta/dhandiary/pkg/domain/schedule"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func main() {
	argsLen := len(os.Args)
	if argsLen < 2 {
		fmt.Println("Usage: cli <command> [arguments]")
		fmt.Println("Commands:")
		fmt.Println("  dashboard                      show net worth, accounts and credit status")
		fmt.Println("  accounts                       list accounts")
		fmt.Println("  adjust <account_id> <balance>  set a corrected balance")
		return
	}
	cmd := os.Args[1]

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Println("Failed to load configuration:", err)
		os.Exit(1)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		fmt.Println("Failed to initialize:", err)
		os.Exit(1)
	}
	application := app.New(deps, cfg)

	userID, err := uuid.Parse(os.Getenv("DHANDIARY_USER_ID"))
	if err != nil {
		fmt.Println("DHANDIARY_USER_ID must be set to a valid user id")
		os.Exit(1)
	}

	ctx := context.Background()
	switch cmd {
	case "dashboard":
		runDashboard(ctx, application, userID)
	case "accounts":
		runAccounts(ctx, application, userID)
	case "adjust":
		if argsLen < 4 {
			fmt.Println("Usage: adjust <account_id> <balance>")
			return
		}
		accountID, err := uuid.Parse(os.Args[2])
		if err != nil {
			fmt.Println("Invalid account id:", err)
			return
		}
		balance, err := strconv.ParseFloat(os.Args[3], 64)
		if err != nil {
			fmt.Println("Invalid balance:", err)
			return
		}
		tx, err := application.LedgerService.AdjustBalance(ctx, userID, accountID, balance)
		if err != nil {
			fmt.Println("Error adjusting balance:", err)
			return
		}
		if tx == nil {
			fmt.Println("Balance already correct, nothing to do")
			return
		}
		fmt.Printf("Balance adjusted via %s of %.2f\n", tx.Type, tx.Amount)
	default:
		fmt.Println("Unknown command:", cmd)
	}
}

// runDashboard fetches net worth and the dashboard concurrently and
// renders a colored summary.
func runDashboard(ctx context.Context, application *app.App, userID uuid.UUID) {
	var (
		netWorth *dto.NetWorthRead
		dash     *dto.DashboardRead
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		netWorth, err = application.InsightsService.NetWorth(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		dash, err = application.InsightsService.Dashboard(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		fmt.Println("Error building dashboard:", err)
		return
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	bold.Println("Net worth")
	fmt.Printf("  assets       %12.2f\n", netWorth.TotalAssets)
	fmt.Printf("  liabilities  %12.2f\n", netWorth.TotalLiabilities)
	if netWorth.NetWorth >= 0 {
		green.Printf("  net          %12.2f\n", netWorth.NetWorth)
	} else {
		red.Printf("  net          %12.2f\n", netWorth.NetWorth)
	}

	if len(dash.Credit) > 0 {
		bold.Println("\nCredit cards")
		for _, c := range dash.Credit {
			line := fmt.Sprintf("  %-20s owed %10.2f  available %10.2f  utilization %5.1f%%",
				c.Name, c.Outstanding, c.AvailableCredit, c.Utilization)
			switch schedule.UtilizationLevel(c.UtilizationLevel) {
			case schedule.LevelDanger:
				red.Println(line)
			case schedule.LevelWarning:
				yellow.Println(line)
			default:
				fmt.Println(line)
			}
			if c.DueSoon {
				yellow.Printf("    payment due in %d day(s)\n", c.DaysUntilDue)
			}
		}
	}

	if len(dash.Pools) > 0 {
		bold.Println("\nShared credit limits")
		for _, p := range dash.Pools {
			fmt.Printf("  %-20s limit %10.2f  outstanding %10.2f  available %10.2f\n",
				p.Name, p.TotalLimit, p.NetOutstanding, p.AvailableCredit)
		}
	}
}

func runAccounts(ctx context.Context, application *app.App, userID uuid.UUID) {
	accounts, err := application.AccountService.ListAccounts(ctx, userID)
	if err != nil {
		fmt.Println("Error listing accounts:", err)
		return
	}
	for _, a := range accounts {
		status := ""
		if a.Archived {
			status = " (archived)"
		}
		fmt.Printf("%s  %-20s %-6s %12.2f %s%s\n", a.ID, a.Name, a.Type, a.Balance, a.Currency, status)
	}
}
