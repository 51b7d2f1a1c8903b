// Command cli is a small operations tool for local development: create a
// creator account, inspect one, or list its plans without going through
// the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/natepay/natepay/infra/initializer"
	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/region"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cli <command> [arguments]")
		fmt.Println("Commands:")
		fmt.Println("  signup <handle> <email> <country>  create a creator (prompts for password)")
		fmt.Println("  show <handle>                      print a creator's account")
		fmt.Println("  plans <handle>                     list a creator's plans")
		fmt.Println("  countries                          list supported countries")
		return
	}
	cmd := os.Args[1]

	if cmd == "countries" {
		for _, c := range region.List() {
			fmt.Printf("%s  %s (%s)\n", c.Code, c.Name, c.Currency)
		}
		return
	}

	cfg, err := config.Load(".env")
	if err != nil {
		color.Red("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		color.Red("Failed to initialize dependencies: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch cmd {
	case "signup":
		if len(os.Args) < 5 {
			fmt.Println("Usage: cli signup <handle> <email> <country>")
			os.Exit(1)
		}
		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			color.Red("Failed to read password: %v", err)
			os.Exit(1)
		}
		created, err := deps.Services.Creator.Signup(
			ctx, os.Args[2], os.Args[3], string(password), os.Args[4])
		if err != nil {
			color.Red("Failed to create creator: %v", err)
			os.Exit(1)
		}
		color.Green("Created creator %s (%s)", created.Handle, created.ID)
	case "show":
		if len(os.Args) < 3 {
			fmt.Println("Usage: cli show <handle>")
			os.Exit(1)
		}
		profile, err := deps.Services.Creator.PublicProfile(ctx, os.Args[2])
		if err != nil {
			color.Red("Creator not found: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Handle:      %s\n", profile.Handle)
		fmt.Printf("Country:     %s\n", profile.CountryCode)
		fmt.Printf("Onboarding:  %s\n", profile.OnboardingStatus)
		fmt.Printf("Subscribers: %d\n", profile.SubscriberCount)
	case "plans":
		if len(os.Args) < 3 {
			fmt.Println("Usage: cli plans <handle>")
			os.Exit(1)
		}
		profile, err := deps.Services.Creator.PublicProfile(ctx, os.Args[2])
		if err != nil {
			color.Red("Creator not found: %v", err)
			os.Exit(1)
		}
		if len(profile.Plans) == 0 {
			fmt.Println("No active plans.")
			return
		}
		for _, p := range profile.Plans {
			line := fmt.Sprintf("%s  $%.2f/%s", p.Name,
				float64(p.PriceUSDCents)/100, p.Interval)
			if p.LocalPrice != nil {
				line += fmt.Sprintf("  (~%s%.2f %s)",
					p.LocalPrice.Symbol, p.LocalPrice.Amount, p.LocalPrice.Currency)
			}
			fmt.Println(line)
		}
	default:
		color.Red("Unknown command: %s", cmd)
		os.Exit(1)
	}
}
