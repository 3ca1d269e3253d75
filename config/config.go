// Package config 读取 plakat 的 TOML 配置文件。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/plakat/binding"
	"github.com/ByLCY/plakat/layout"
	"github.com/ByLCY/plakat/schedule"
)

// File 是配置文件的完整结构。未出现的字段保留默认值。
type File struct {
	Paper   layout.Paper  `toml:"paper"`
	Tuning  layout.Tuning `toml:"tuning"`
	Render  Render        `toml:"render"`
	Server  Server        `toml:"server"`
	Catalog string        `toml:"catalog,omitempty"` // .shapes 文件路径，为空时使用内置目录
}

// Render 控制输出。
type Render struct {
	Format   string  `toml:"format"`
	Out      string  `toml:"out"`
	FontPath string  `toml:"font,omitempty"`
	DPMM     float64 `toml:"dpmm,omitempty"`
	PrintDir string  `toml:"print_dir"`
}

// Server 控制预览服务。
type Server struct {
	Addr     string        `toml:"addr"`
	Debounce time.Duration `toml:"debounce"`
}

// Default 返回内置默认配置。
func Default() File {
	return File{
		Paper:  layout.DefaultPaper(),
		Tuning: layout.DefaultTuning(),
		Render: Render{
			Format:   "pdf",
			Out:      "output/poster.pdf",
			PrintDir: "output/spool",
		},
		Server: Server{
			Addr:     "127.0.0.1:8080",
			Debounce: schedule.DefaultWindow,
		},
	}
}

// Load 读取 path 并覆盖默认配置。path 为空时直接返回默认配置。
func Load(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	f, err := Parse(string(data))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse 解析 TOML 文本并覆盖默认配置。未知字段视为错误。
func Parse(data string) (File, error) {
	f := Default()
	md, err := toml.Decode(data, &f)
	if err != nil {
		return File{}, fmt.Errorf("解析配置失败: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("未知配置项: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate 检查数值范围。
func (f File) Validate() error {
	var errs []error
	if f.Paper.WidthMM <= 0 {
		errs = append(errs, fmt.Errorf("paper.width_mm 必须为正数: %g", f.Paper.WidthMM))
	}
	if f.Paper.MinHeightMM <= 0 {
		errs = append(errs, fmt.Errorf("paper.min_height_mm 必须为正数: %g", f.Paper.MinHeightMM))
	}
	if f.Paper.MMPerChar < 0 {
		errs = append(errs, fmt.Errorf("paper.mm_per_char 不能为负: %g", f.Paper.MMPerChar))
	}
	if f.Tuning.NoDistortion < 0 || f.Tuning.NoDistortion > 1 {
		errs = append(errs, fmt.Errorf("tuning.no_distortion 应在 [0,1]: %g", f.Tuning.NoDistortion))
	}
	for name, w := range f.Tuning.RecipeWeights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("tuning.recipe_weights.%s 不能为负: %g", name, w))
		}
	}
	if f.Tuning.FooterTemplate != "" {
		if _, err := binding.Compile(f.Tuning.FooterTemplate); err != nil {
			errs = append(errs, fmt.Errorf("tuning.footer_template: %w", err))
		}
	}
	if f.Server.Debounce < 0 {
		errs = append(errs, fmt.Errorf("server.debounce 不能为负: %s", f.Server.Debounce))
	}
	return errors.Join(errs...)
}

// Write 以 TOML 格式写出配置，可作为配置文件模板。
func (f File) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}
