// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build !unix

package http

func osRelease() string {
	return "unknown"
}
