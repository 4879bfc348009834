// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/position"
	"github.com/wneessen/geocached/internal/position/file"
	"github.com/wneessen/geocached/internal/position/gpsd"
)

type reverseFlags struct {
	locale     string
	gpsd       string
	file       string
	fixTimeout time.Duration
}

func newReverseCommand(a *app) *cobra.Command {
	flags := new(reverseFlags)
	cmd := &cobra.Command{
		Use:   "reverse [<lat> <lon>]",
		Short: "Resolve coordinates into an address",
		Long: "Resolve coordinates into an address. Without coordinates the position is read\n" +
			"from gpsd (--gpsd) or from a position file (--from-file).",
		Args: cobra.MatchAll(cobra.RangeArgs(0, 2), func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return errors.New("expected both latitude and longitude")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := flags.coordinate(cmd.Context(), args)
			if err != nil {
				return err
			}
			addrs, err := a.service.Reverse(cmd.Context(), coord.Lat, coord.Lon, 1, a.locale(flags.locale))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(addrs)
			}
			return a.presenter.Addresses(addrs)
		},
	}
	cmd.Flags().StringVarP(&flags.locale, "locale", "l", "", "result locale, e.g. de_DE (default from config)")
	cmd.Flags().StringVar(&flags.gpsd, "gpsd", "", "take the position from gpsd at the given address")
	cmd.Flags().Lookup("gpsd").NoOptDefVal = gpsd.DefaultAddr
	cmd.Flags().StringVar(&flags.file, "from-file", "", "take the position from a file holding a \"lat,lon\" line")
	cmd.Flags().DurationVar(&flags.fixTimeout, "fix-timeout", 30*time.Second, "how long to wait for a gpsd fix")
	cmd.MarkFlagsMutuallyExclusive("gpsd", "from-file")
	return cmd
}

func (f *reverseFlags) coordinate(ctx context.Context, args []string) (geocode.Coordinate, error) {
	if len(args) == 2 {
		if f.gpsd != "" || f.file != "" {
			return geocode.Coordinate{}, errors.New("coordinates and a position source are mutually exclusive")
		}
		return parseCoordinate(args[0], args[1])
	}

	var source position.Source
	switch {
	case f.gpsd != "":
		source = gpsd.New(f.gpsd)
	case f.file != "":
		source = file.New(f.file)
	default:
		return geocode.Coordinate{}, errors.New("either coordinates, --gpsd or --from-file are required")
	}

	ctx, cancel := context.WithTimeout(ctx, f.fixTimeout)
	defer cancel()
	coord, err := source.Fix(ctx)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("failed to determine current position: %w", err)
	}
	return coord, nil
}

func parseCoordinate(lat, lon string) (geocode.Coordinate, error) {
	var coord geocode.Coordinate
	var err error
	if coord.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return coord, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	if coord.Lon, err = strconv.ParseFloat(lon, 64); err != nil {
		return coord, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}
	return coord, coord.Validate()
}
