// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build unix

package wake

import "golang.org/x/sys/unix"

func closeFD(fd int) error {
	return unix.Close(fd)
}
