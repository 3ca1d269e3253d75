// Package random 提供海报生成所需的随机数服务。
//
// 默认所有随机数都来自 crypto/rand，结果无法复现；调试时可以用 Seeded 得到固定序列。
// 熵源不可用时不会退回到弱随机数生成器，而是以 ErrEntropy 终止本次生成。
package random

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
)

// ErrEntropy 表示熵源读取失败，本次生成无法继续。
var ErrEntropy = errors.New("random: 熵源不可用")

// Rand 是排版引擎消费的随机数接口，便于在测试中替换为脚本化实现。
type Rand interface {
	// Float 返回 [0,1) 区间内的均匀浮点数。
	Float() float64
	// Int 返回 [a,b] 闭区间内的整数。
	Int(a, b int) int
	// Range 返回 [a,b) 区间内的浮点数。
	Range(a, b float64) float64
}

// Source 使用密码学安全的字节流生成随机数。
type Source struct {
	r io.Reader
}

var _ Rand = (*Source)(nil)

// New 返回基于 crypto/rand.Reader 的随机源。
func New() *Source { return &Source{r: rand.Reader} }

// NewFromReader 使用给定字节流构造随机源，r 为空时使用 crypto/rand.Reader。
func NewFromReader(r io.Reader) *Source {
	if r == nil {
		r = rand.Reader
	}
	return &Source{r: r}
}

// Seeded 返回由 seed 决定的 ChaCha8 随机源，只用于复现某张海报。非并发安全。
func Seeded(seed uint64) *Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &Source{r: mrand.NewChaCha8(key)}
}

type entropyFailure struct{ err error }

// Float 取 53 位随机尾数，保证结果严格小于 1。
func (s *Source) Float() float64 {
	var buf [8]byte
	if _, err := io.ReadFull(s.r, buf[:]); err != nil {
		panic(entropyFailure{err: err})
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// Int 返回 [a,b] 内的整数；b < a 时返回 a。
func (s *Source) Int(a, b int) int { return intFrom(s, a, b) }

// Range 返回 [a,b) 内的浮点数。
func (s *Source) Range(a, b float64) float64 { return s.Float()*(b-a) + a }

func intFrom(r Rand, a, b int) int {
	if b < a {
		return a
	}
	n := int(r.Float() * float64(b-a+1))
	if n > b-a {
		n = b - a
	}
	return a + n
}

// Pick 均匀地从 items 中取一个元素；items 为空时返回零值。
func Pick[T any](r Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	idx := int(r.Float() * float64(len(items)))
	if idx >= len(items) {
		idx = len(items) - 1
	}
	return items[idx]
}

// Weighted 按权重返回下标；所有权重都不为正时返回 -1。
func Weighted(r Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	roll := r.Float() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if roll < w {
			return i
		}
		roll -= w
	}
	return last
}

// Guard 在 defer 中使用：把熵源失败转换为 ErrEntropy 写入 errp，其余 panic 原样抛出。
func Guard(errp *error) {
	v := recover()
	if v == nil {
		return
	}
	if f, ok := v.(entropyFailure); ok {
		*errp = fmt.Errorf("%w: %v", ErrEntropy, f.err)
		return
	}
	panic(v)
}
