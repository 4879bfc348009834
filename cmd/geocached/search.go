// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wneessen/geocached/internal/geocode"
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		locale string
		bbox   string
		max    int
	)
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Resolve a place name or address into coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := parseBoundingBox(bbox)
			if err != nil {
				return err
			}
			addrs, err := a.service.Search(cmd.Context(), strings.Join(args, " "), max, box, a.locale(locale))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(addrs)
			}
			return a.presenter.Addresses(addrs)
		},
	}
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "result locale, e.g. de_DE (default from config)")
	cmd.Flags().IntVarP(&max, "max", "n", 5, "maximum number of results")
	cmd.Flags().StringVar(&bbox, "bbox", "", "bounding box as \"ll_lat,ll_lon,ur_lat,ur_lon\"")
	return cmd
}

func parseBoundingBox(value string) (geocode.BoundingBox, error) {
	if value == "" {
		return geocode.BoundingBox{}, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return geocode.BoundingBox{}, fmt.Errorf("invalid bounding box %q: expected 4 comma separated values", value)
	}
	edges := make([]float64, len(parts))
	for i, part := range parts {
		edge, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geocode.BoundingBox{}, fmt.Errorf("invalid bounding box %q: %w", value, err)
		}
		edges[i] = edge
	}
	box := geocode.BoundingBox{
		LowerLeftLat:  edges[0],
		LowerLeftLon:  edges[1],
		UpperRightLat: edges[2],
		UpperRightLon: edges[3],
	}
	if err := box.Validate(); err != nil {
		return geocode.BoundingBox{}, fmt.Errorf("invalid bounding box %q: %w", value, err)
	}
	return box, nil
}
