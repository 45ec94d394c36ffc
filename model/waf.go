package model

import (
	"errors"
	"net/netip"
	"time"

	"gorm.io/gorm"
)

const (
	_ uint8 = iota
	WAFBlockReasonTypeLoginFail
	WAFBlockReasonTypeBruteForceToken
)

// 封禁上限一天，避免 count 很大时把运营同学永久关在门外
const wafMaxBlockSeconds = 86400

// WAF 登录失败与伪造凭证的来源 IP 记录，失败次数越多封禁越久
type WAF struct {
	IP                 []byte `gorm:"type:binary(16);primaryKey" json:"ip,omitempty"`
	Count              uint64 `json:"count,omitempty"`
	LastBlockReason    uint8  `json:"last_block_reason,omitempty"`
	LastBlockTimestamp uint64 `json:"last_block_timestamp,omitempty"`
}

func (w *WAF) TableName() string {
	return "waf"
}

func ipStringToBinary(ip string) ([]byte, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil, err
	}
	b := addr.As16()
	return b[:], nil
}

// blockSeconds 第 n 次失败后的封禁秒数：n³，封顶一天
func blockSeconds(count uint64) uint64 {
	if count > 44 { // 44³ < 86400 < 45³
		return wafMaxBlockSeconds
	}
	return count * count * count
}

func CheckIP(db *gorm.DB, ip string) error {
	ipBinary, err := ipStringToBinary(ip)
	if err != nil {
		return err
	}
	var w WAF
	if err := db.First(&w, "ip = ?", ipBinary).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return nil
	}
	if w.LastBlockTimestamp+blockSeconds(w.Count) > uint64(time.Now().Unix()) {
		return errors.New("ip is blocked, try again later")
	}
	return nil
}

func BlockIP(db *gorm.DB, ip string, reason uint8) error {
	if ip == "" {
		return errors.New("empty ip")
	}
	ipBinary, err := ipStringToBinary(ip)
	if err != nil {
		return err
	}
	w := WAF{IP: ipBinary}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.FirstOrCreate(&w, WAF{IP: ipBinary}).Error; err != nil {
			return err
		}
		w.Count++
		w.LastBlockReason = reason
		w.LastBlockTimestamp = uint64(time.Now().Unix())
		return tx.Save(&w).Error
	})
}

// ClearIP 登录成功后解除累计
func ClearIP(db *gorm.DB, ip string) error {
	if ip == "" {
		return errors.New("empty ip")
	}
	ipBinary, err := ipStringToBinary(ip)
	if err != nil {
		return err
	}
	return db.Unscoped().Delete(&WAF{}, "ip = ?", ipBinary).Error
}
