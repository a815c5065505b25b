package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laundry-pos/internal/repository"
)

const (
	defaultOrderCodePrefix = "TMS/ORD"
	defaultOrderCodeWidth  = 3
)

// OrderCodeFormat 订单编号格式：PREFIX-NNN
type OrderCodeFormat struct {
	Prefix string
	Width  int
}

func (f OrderCodeFormat) normalized() OrderCodeFormat {
	if strings.TrimSpace(f.Prefix) == "" {
		f.Prefix = defaultOrderCodePrefix
	}
	if f.Width <= 0 {
		f.Width = defaultOrderCodeWidth
	}
	return f
}

// Format 生成编号，超过宽度时不截断
func (f OrderCodeFormat) Format(seq int64) string {
	f = f.normalized()
	return fmt.Sprintf("%s-%0*d", f.Prefix, f.Width, seq)
}

// ParseOrderCodeSuffix 解析编号末尾的数字部分
func ParseOrderCodeSuffix(code string) (int64, bool) {
	code = strings.TrimSpace(code)
	idx := strings.LastIndex(code, "-")
	if idx < 0 || idx == len(code)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(code[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// nextOrderSequence 在事务内锁定计数器并递增。
// 加锁后再读取最新订单编号，取两者较大值，计数器落后于存量数据时自动追平。
func nextOrderSequence(orderRepo *repository.GormOrderRepository, seqRepo *repository.GormOrderSequenceRepository, name string) (int64, error) {
	existing, err := seqRepo.Get(name)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		if err := seqRepo.InsertIfAbsent(name, 0); err != nil {
			return 0, err
		}
	}

	seq, err := seqRepo.GetForUpdate(name)
	if err != nil {
		return 0, err
	}
	if seq == nil {
		return 0, fmt.Errorf("order sequence %q missing after init", name)
	}

	last := seq.LastValue
	latest, err := orderRepo.GetLatest()
	if err != nil {
		return 0, err
	}
	if latest != nil {
		if n, ok := ParseOrderCodeSuffix(latest.OrderCode); ok && n > last {
			last = n
		}
	}

	next := last + 1
	if err := seqRepo.UpdateValue(name, next); err != nil {
		return 0, err
	}
	return next, nil
}
