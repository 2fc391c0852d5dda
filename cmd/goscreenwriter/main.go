/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"os"

	"goscreenwriter/internal/commands"
	"goscreenwriter/internal/crash"
	"goscreenwriter/internal/telemetry"
)

func main() {
	defer crash.Recover(nil)
	err := commands.New().ExecuteContext(context.Background())
	telemetry.Flush(context.Background())
	if err != nil {
		os.Exit(1)
	}
}
