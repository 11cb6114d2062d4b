/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package flow

import (
	"github.com/Comcast/tako/core"
)

// toStrand makes an encapsulated Strand from x.
func toStrand(x interface{}) (*core.Strand, error) {
	s, is := x.(*core.Strand)
	if !is {
		var err error
		if s, err = core.NewStrand(x); err != nil {
			return nil, err
		}
	}
	return s.Encapsulate(false)
}

func toStrands(xs []interface{}) ([]*core.Strand, error) {
	acc := make([]*core.Strand, len(xs))
	for i, x := range xs {
		s, err := toStrand(x)
		if err != nil {
			return nil, err
		}
		acc[i] = s
	}
	return acc, nil
}

func spawnStrands(ss []*core.Strand) []*core.Strand {
	acc := make([]*core.Strand, len(ss))
	for i, s := range ss {
		acc[i] = s.Spawn()
	}
	return acc
}

func botDown(b core.Bot, ss ...*core.Strand) {
	for _, s := range ss {
		if s != nil {
			s.BotForward(b)
		}
	}
}

// padded returns n strands, the given ones followed by Noops.
func padded(what string, n int, xs []interface{}) ([]*core.Strand, error) {
	if n == 0 {
		n = len(xs)
	}
	if n < len(xs) {
		return nil, &core.ArityError{What: what, Want: n, Got: len(xs)}
	}
	all := make([]interface{}, n)
	copy(all, xs)
	return toStrands(all)
}
