package slot

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
	"sync"
)

// RandomSource 随机源接口，生成与评估均通过参数注入，测试可使用固定序列
type RandomSource interface {
	// Intn 返回 [0, n) 内的随机整数，n 必须大于0
	Intn(n int) int
}

// CryptoRandomGenerator 加密安全的随机数生成器
type CryptoRandomGenerator struct{}

// NewCryptoRandomGenerator 创建加密随机数生成器
func NewCryptoRandomGenerator() *CryptoRandomGenerator {
	return &CryptoRandomGenerator{}
}

// Intn 生成 [0, n) 内的随机整数
func (g *CryptoRandomGenerator) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("slot: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// SeededRandomGenerator 可复现的伪随机数生成器（PCG）
type SeededRandomGenerator struct {
	r *mathrand.Rand
}

// NewSeededRandomGenerator 按种子创建伪随机数生成器
func NewSeededRandomGenerator(seed int64) *SeededRandomGenerator {
	return &SeededRandomGenerator{
		r: mathrand.New(mathrand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// Intn 生成 [0, n) 内的随机整数
func (g *SeededRandomGenerator) Intn(n int) int {
	return g.r.IntN(n)
}

// LockedRandomSource 为共享随机源加锁，供并发请求使用
type LockedRandomSource struct {
	mu  sync.Mutex
	src RandomSource
}

// NewLockedRandomSource 包装随机源
func NewLockedRandomSource(src RandomSource) *LockedRandomSource {
	return &LockedRandomSource{src: src}
}

// Intn 加锁后取随机数
func (l *LockedRandomSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

// NewRandomSource 种子为0时使用加密随机源，否则使用可复现的伪随机源
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		return NewCryptoRandomGenerator()
	}
	return NewSeededRandomGenerator(seed)
}
