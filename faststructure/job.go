/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package faststructure

import (
	"fmt"
	"strings"
)

const (
	DefaultExe    = "structure.py"
	DefaultK      = 2
	DefaultFormat = "str"
	DefaultPrior  = "simple"
	DefaultSeed   = 100

	// FileExtension is what fastStructure expects on its str-format input
	// file; it is addressed by the prefix without this extension.
	FileExtension = ".str"
)

// Job represents the parameters for one fastStructure run over an exported
// file. All parameters are required, but NewJob defaults the usually fixed
// ones.
type Job struct {
	Exe          string
	InputPrefix  string
	OutputPrefix string
	K            int
	Format       string
	Prior        string
	Seed         int
	Full         bool
}

// NewJob creates a Job for the exported file at path (the FileExtension is
// stripped to form the input prefix) with default values for the properties
// fastStructure usually has fixed.
func NewJob(path, outputPrefix string, k int) Job {
	if k < 1 {
		k = DefaultK
	}

	return Job{
		Exe:          DefaultExe,
		InputPrefix:  InputPrefix(path),
		OutputPrefix: outputPrefix,
		K:            k,
		Format:       DefaultFormat,
		Prior:        DefaultPrior,
		Seed:         DefaultSeed,
	}
}

// InputPrefix converts an exported file path to the prefix fastStructure
// addresses it by.
func InputPrefix(path string) string {
	return strings.TrimSuffix(path, FileExtension)
}

// Command generates the fastStructure command to execute.
func (j *Job) Command() string {
	cmd := fmt.Sprintf("python %s -K %d --input=%s --output=%s --format=%s --prior=%s --seed=%d",
		j.Exe, j.K, j.InputPrefix, j.OutputPrefix, j.Format, j.Prior, j.Seed)

	if j.Full {
		cmd += " --full"
	}

	return cmd
}
