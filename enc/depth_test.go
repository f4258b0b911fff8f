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

import "testing"

func TestDepthGuardDisabled(t *testing.T) {
	g := newDepthGuard(0)
	for i := 0; i < 10000; i++ {
		if err := g.enter(); err != nil {
			t.Fatalf("disabled guard should never error, got %v at iteration %d", err, i)
		}
	}
}

func TestDepthGuardExceeded(t *testing.T) {
	g := newDepthGuard(3)
	for i := 0; i < 3; i++ {
		if err := g.enter(); err != nil {
			t.Fatalf("enter %d: unexpected error %v", i, err)
		}
	}
	if err := g.enter(); err != ErrDepthExceeded {
		t.Fatalf("got %v, want ErrDepthExceeded", err)
	}
	g.exit()
	if err := g.enter(); err != nil {
		t.Fatalf("enter after exit: unexpected error %v", err)
	}
}

func TestDepthGuardRestoresOnUnwind(t *testing.T) {
	g := newDepthGuard(1)
	if err := g.enter(); err != nil {
		t.Fatal(err)
	}
	g.exit()
	if g.remaining != g.budget {
		t.Fatalf("remaining=%d, want budget=%d restored after exit", g.remaining, g.budget)
	}
}
