package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"travel/internal/flight"
)

type serviceFactory func(ctx context.Context) (flight.FlightService, error)

type cli struct {
	newService serviceFactory
	svc        flight.FlightService
	asJSON     bool
}

func newRootCmd(factory serviceFactory) *cobra.Command {
	c := &cli{newService: factory}

	rootCmd := &cobra.Command{
		Use:           "travelctl",
		Short:         "travelctl - search, price and book flights from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.newService(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to init service: %w", err)
			}
			c.svc = svc
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&c.asJSON, "json", "j", false, "output as JSON")

	rootCmd.AddCommand(c.searchCmd())
	rootCmd.AddCommand(c.calendarCmd())
	rootCmd.AddCommand(c.offerCmd())
	rootCmd.AddCommand(c.bookCmd())

	return rootCmd
}

func routeFlags(cmd *cobra.Command, from, to, date *string) {
	cmd.Flags().StringVarP(from, "from", "f", "", "origin IATA code")
	cmd.Flags().StringVarP(to, "to", "t", "", "destination IATA code")
	cmd.Flags().StringVarP(date, "date", "d", "", "outbound date (YYYY-MM-DD)")
}

func (c *cli) searchCmd() *cobra.Command {
	var req flight.SearchRequest

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search one-way flights",
		Long: `Search one-way offers for a route and date.

Examples:
  travelctl search --from DAM --to DXB --date 2026-11-15
  travelctl search -f DAM -t DXB -d 2026-11-15 --adults 2 --currency AED --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.svc.SearchFlights(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeFlights(cmd.OutOrStdout(), result.Flights)
		},
	}

	routeFlags(cmd, &req.DepartureID, &req.ArrivalID, &req.OutboundDate)
	cmd.Flags().Float64VarP(&req.Adults, "adults", "a", 1, "number of adult passengers")
	cmd.Flags().StringVarP(&req.Currency, "currency", "c", "USD", "price currency (USD, AED, SAR)")

	return cmd
}

func (c *cli) calendarCmd() *cobra.Command {
	var req flight.CalendarRequest

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Cheapest price per sampled date",
		Long: `Sample every third day of a range and report the cheapest price per date.

Examples:
  travelctl calendar -f DAM -t DXB -d 2026-11-01 --start 2026-11-01 --end 2026-11-30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.svc.GetPriceCalendar(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeCalendar(cmd.OutOrStdout(), result.Entries)
		},
	}

	routeFlags(cmd, &req.DepartureID, &req.ArrivalID, &req.OutboundDate)
	cmd.Flags().StringVar(&req.OutboundDateStart, "start", "", "range start (defaults to --date)")
	cmd.Flags().StringVar(&req.OutboundDateEnd, "end", "", "range end (defaults to --date)")
	cmd.Flags().Float64VarP(&req.Adults, "adults", "a", 1, "number of adult passengers")
	cmd.Flags().StringVarP(&req.Currency, "currency", "c", "USD", "price currency (USD, AED, SAR)")

	return cmd
}

func (c *cli) offerCmd() *cobra.Command {
	var req flight.OfferRequest

	cmd := &cobra.Command{
		Use:   "offer [offer-id]",
		Short: "Show one offer and its booking link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.OfferID = args[0]
			result, err := c.svc.GetOffer(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			if result.Flight != nil {
				if err := writeFlights(cmd.OutOrStdout(), []flight.Flight{*result.Flight}); err != nil {
					return err
				}
			}
			if result.GoogleFlightsURL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.GoogleFlightsURL)
			}
			return nil
		},
	}

	routeFlags(cmd, &req.DepartureID, &req.ArrivalID, &req.OutboundDate)
	cmd.Flags().StringVarP(&req.Currency, "currency", "c", "", "price currency for the booking link")

	return cmd
}

func (c *cli) bookCmd() *cobra.Command {
	var passengersFile string

	cmd := &cobra.Command{
		Use:   "book [offer-id]",
		Short: "Create a pay-later order",
		Long: `Book an offer for the passengers listed in a JSON file.

The file holds an array of passengers in offer order:
  [{"given_name":"Sara","family_name":"Haddad","born_on":"1990-04-12",
    "email":"sara@example.com","phone_number":"+971501234567","gender":"f","title":"ms"}]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			passengers, err := readPassengers(passengersFile)
			if err != nil {
				return err
			}

			result, err := c.svc.CreateBooking(cmd.Context(), flight.BookRequest{
				OfferID:    args[0],
				Passengers: passengers,
			})
			if err != nil {
				return err
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s booked, reference %s (%s)\n",
				result.OrderID, result.BookingReference, result.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&passengersFile, "passengers", "p", "", "path to passengers JSON file")
	_ = cmd.MarkFlagRequired("passengers")

	return cmd
}

func readPassengers(path string) ([]flight.BookingPassenger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read passengers: %w", err)
	}
	var passengers []flight.BookingPassenger
	if err := json.Unmarshal(data, &passengers); err != nil {
		return nil, fmt.Errorf("parse passengers %s: %w", path, err)
	}
	return passengers, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFlights(w io.Writer, flights []flight.Flight) error {
	if len(flights) == 0 {
		fmt.Fprintln(w, "No flights found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFER\tFLIGHT\tROUTE\tDEPART\tARRIVE\tDURATION\tSTOPS\tPRICE\t")
	for _, f := range flights {
		best := ""
		if f.IsBest {
			best = " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s-%s\t%s\t%s\t%dh%02dm\t%d\t%.2f %s%s\t\n",
			f.OfferID, f.FlightNumber, f.Origin.Code, f.Destination.Code,
			f.DepartureTime, f.ArrivalTime,
			f.DurationMinutes/60, f.DurationMinutes%60, f.Stops,
			f.Price.Amount, f.Price.Currency, best)
	}
	return tw.Flush()
}

func writeCalendar(w io.Writer, entries []flight.CalendarEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No dates in range.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPRICE\t")
	for _, e := range entries {
		switch {
		case e.Price != nil && e.IsLowestPrice:
			fmt.Fprintf(tw, "%s\t%.2f *\t\n", e.Date, *e.Price)
		case e.Price != nil:
			fmt.Fprintf(tw, "%s\t%.2f\t\n", e.Date, *e.Price)
		default:
			fmt.Fprintf(tw, "%s\t-\t\n", e.Date)
		}
	}
	return tw.Flush()
}
