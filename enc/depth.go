// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package enc

// depthGuard tracks a per-traversal remaining recursion budget. It is
// pushed on entry to every heap-like composite (struct, variant arm,
// sequence, map, option-present) and popped on exit, including on every
// error-unwind path -- callers always pair enter with a deferred exit.
// Tuples and primitives never touch it. A zero budget disables the guard
// entirely (BINCODE).
type depthGuard struct {
	budget    int
	remaining int
}

func newDepthGuard(budget int) depthGuard {
	return depthGuard{budget: budget, remaining: budget}
}

func (g *depthGuard) enter() error {
	if g.budget == 0 {
		return nil
	}
	if g.remaining == 0 {
		return ErrDepthExceeded
	}
	g.remaining--
	return nil
}

func (g *depthGuard) exit() {
	if g.budget == 0 {
		return
	}
	g.remaining++
}
