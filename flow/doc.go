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

// Package flow provides composite Neurons for branching, repetition,
// merging, and Warehouse side channels.
//
// Each composite holds its own sub-strands, which are encapsulated
// when the composite is made.  Bots are sent into every sub-strand
// (BotDown), and Spawn copies every sub-strand.
//
// Pairs and lists are []interface{} values.  Gate, Switch, Cases,
// and the body of a Repeat all work with two-element pairs.
package flow
