/*
 * Copyright 2020 Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

// Package ion reads and writes Amazon Ion, a richly-typed, self-describing
// data format with isomorphic text and binary encodings.
//
// A Reader walks either encoding with the same API; a Writer emits either
// one from the same calls. SymbolTable and Catalog track the symbol
// interning that both encodings rely on. Value holds a whole Ion value in
// memory: Load and LoadAll build Values from a Reader, and Dump and DumpAll
// write them to a Writer.
//
// See http://amzn.github.io/ion-docs/docs/spec.html for the format itself.
package ion
