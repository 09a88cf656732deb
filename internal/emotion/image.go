// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package emotion

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

// DecodeImage reads an uploaded frame in any registered format (JPEG, PNG,
// GIF, WebP).
func DecodeImage(r io.Reader) (ImageInput, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return ImageInput{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ImageInput{}, fmt.Errorf("%w: empty %s frame", ErrInvalidImage, format)
	}
	return ImageInput{Frame: img}, nil
}
