// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders geocoding results and cache contents for the terminal.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/geocached/internal/cache"
	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/i18n"
)

const columnGap = 2

type Presenter struct {
	catalog *i18n.Catalog
	output  io.Writer
}

func New(catalog *i18n.Catalog, output io.Writer) *Presenter {
	return &Presenter{catalog: catalog, output: output}
}

type field struct {
	addr geocode.Address
}

func (f field) coordinates() string {
	return fmt.Sprintf("%s, %s", geocode.FormatDegrees(f.addr.Coordinate.Lat), geocode.FormatDegrees(f.addr.Coordinate.Lon))
}

// Addresses prints every address as a block of localized "label: value" lines
// followed by its formatted address lines.
func (p *Presenter) Addresses(addrs []geocode.Address) error {
	if len(addrs) == 0 {
		return p.println(p.catalog.Get(msgNoAddress))
	}

	labels := make([]string, 0, len(addressLabels)+1)
	for _, l := range addressLabels {
		labels = append(labels, p.catalog.Get(l.label))
	}
	addressLabel := p.catalog.Get("Address")
	width := maxWidth(append(labels, addressLabel)) + columnGap

	var sb strings.Builder
	for i, addr := range addrs {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, l := range addressLabels {
			value := l.value(field{addr: addr})
			if value == "" {
				continue
			}
			sb.WriteString(pad(labels[j]+":", width) + value + "\n")
		}
		for j, line := range addr.AddressLines {
			label := ""
			if j == 0 {
				label = addressLabel + ":"
			}
			sb.WriteString(pad(label, width) + line + "\n")
		}
	}
	return p.print(sb.String())
}

// Rows prints the cache rows as a table. The age column is relative to now.
func (p *Presenter) Rows(rows []cache.Row, now time.Time) error {
	if len(rows) == 0 {
		return p.println(p.catalog.Get(msgCacheEmpty))
	}

	table := make([][]string, 0, len(rows)+1)
	header := make([]string, 0, len(rowLabels))
	for _, l := range rowLabels {
		header = append(header, p.catalog.Get(l))
	}
	table = append(table, header)
	for _, row := range rows {
		var addr geocode.Address
		if err := json.Unmarshal(row.Address, &addr); err != nil {
			addr.Locality = "?"
		}
		table = append(table, []string{
			fmt.Sprintf("%s, %s", geocode.FormatDegrees(row.Lat), geocode.FormatDegrees(row.Lon)),
			row.Locale,
			addr.Locality,
			p.age(row.CreatedAt, now),
		})
	}
	return p.print(renderTable(table))
}

// Swept reports the result of a cache sweep.
func (p *Presenter) Swept(deleted int64) error {
	return p.println(p.catalog.Getf(msgSwept, deleted))
}

func (p *Presenter) age(created, now time.Time) string {
	if created.After(now) {
		created = now
	}
	return p.catalog.Humanizer.NaturalTime(time.Now().Add(created.Sub(now)))
}

func (p *Presenter) print(s string) error {
	_, err := io.WriteString(p.output, s)
	return err
}

func (p *Presenter) println(s string) error {
	return p.print(s + "\n")
}

func renderTable(table [][]string) string {
	widths := make([]int, len(table[0]))
	for _, cols := range table {
		for i, col := range cols {
			if w := runewidth.StringWidth(col); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for _, cols := range table {
		for i, col := range cols {
			if i == len(cols)-1 {
				sb.WriteString(col)
				continue
			}
			sb.WriteString(pad(col, widths[i]+columnGap))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func maxWidth(values []string) int {
	width := 0
	for _, v := range values {
		if w := runewidth.StringWidth(v); w > width {
			width = w
		}
	}
	return width
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
