// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build !unix

package wake

func closeFD(int) error {
	return nil
}
