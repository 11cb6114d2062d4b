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

// Package ref provides Neurons whose output is found by walking a
// path from a base value.
//
// The base depends on the kind of Ref: the Neuron's input
// (EmissionRef), the object that owns the Neuron (MyRef), the owner's
// parent level (SuperRef), or a fixed value (ValRef).  A path is a
// sequence of Steps: Attr looks up a named attribute, Idx indexes,
// and InCall calls the current value with arguments that can
// themselves be Refs.
//
// Placeholders build Refs fluently:
//
//	ref.My().Attr("Scale").Call(ref.Emission().Idx(0))
//
// becomes a MyRef that calls its owner's Scale with the first element
// of the input.  Owners and supers are bound once, usually by a
// core.CallSetOwner or core.CallSetSuper Bot.  Later bindings are
// ignored and reported as false.
package ref
