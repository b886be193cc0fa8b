// SPDX-License-Identifier: EPL-2.0

package envelope

import "errors"

var ErrInvalidConfig = errors.New("invalid envelope config")
