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

// Package tako provides classes of Arms.
//
// A Class is an explicit schema: a name, an optional parent Class,
// named Arms, and named fields.  New makes an Instance with its own
// copies (spawns) of every Arm, so instances never share state.
//
// Each level of the class hierarchy gets a controller that holds that
// level's Arms.  Every Arm of an instance is bound to the instance as
// its owner (see ref.MyRef), and each level's Arms are bound to the
// next level up as their super (see ref.SuperRef).  An Arm lookup
// starts at the instance and walks up through the ancestors, so a
// subclass overrides its parent's Arms while still reaching them
// through super.
//
// The graph machinery is in package core, composite Neurons are in
// package flow, and Refs are in package ref.  See package blueprint
// for Classes defined in YAML.
package tako
