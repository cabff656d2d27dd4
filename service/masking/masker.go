/*
 * @module service/masking/masker
 * @description 数据脱敏器，支持部分遮盖、哈希替换、随机生成和删除四种策略
 * @architecture 策略模式 - 按敏感类型和脱敏策略分派具体算法
 * @documentReference dev_docs/data_processing_req.md
 * @stateFlow 空值透传 -> 策略分派 -> 类型感知处理 -> 返回字符串结果
 * @rules 空值和空白值原样透传，绝不伪造；部分遮盖保持值的可辨识结构
 * @dependencies crypto/sha256, math/rand
 * @refs service/pipeline/masking_stage.go, service/sensitive/
 */

package masking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"

	"dataclean-service/service/models"
)

// 删除策略的占位值
const removedPlaceholder = "[已删除]"

// 随机生成使用的素材
var (
	randomSurnames = []string{"王", "李", "张", "刘", "陈", "杨", "黄", "赵", "周", "吴"}
	randomGiven    = []string{"伟", "芳", "娜", "敏", "静", "磊", "军", "洋", "勇", "艳"}
	randomDomains  = []string{"example.com", "test.org", "mail.net"}
	randomPrefixes = []string{"138", "139", "150", "151", "188", "189"}
	randomCities   = []string{"北京市", "上海市", "广州市", "深圳市", "杭州市"}
	randomStreets  = []string{"人民路", "中山路", "解放路", "建设路", "文化路"}
)

// Mask 对单个值按敏感类型和策略脱敏
// nil 和空白字符串原样返回，其余情况返回脱敏后的字符串
func Mask(value interface{}, sType models.SensitiveType, strategy models.MaskingStrategy) interface{} {
	if value == nil {
		return nil
	}
	str := models.ValueToString(value)
	if strings.TrimSpace(str) == "" {
		return value
	}

	switch strategy {
	case models.MaskHash:
		return hashValue(str)
	case models.MaskRandom:
		return randomValue(sType)
	case models.MaskRemove:
		return removedPlaceholder
	default:
		return partialMask(str, sType)
	}
}

// MaskColumn 对整列值脱敏
func MaskColumn(values []interface{}, sType models.SensitiveType, strategy models.MaskingStrategy) []interface{} {
	masked := make([]interface{}, len(values))
	for i, v := range values {
		masked[i] = Mask(v, sType, strategy)
	}
	return masked
}

// Preview 生成脱敏前后的样本对照，最多保留 limit 条
func Preview(samples []string, sType models.SensitiveType, strategy models.MaskingStrategy, limit int) models.MaskingPreview {
	preview := models.MaskingPreview{Original: []string{}, Masked: []string{}}
	for _, s := range samples {
		if len(preview.Original) >= limit {
			break
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		preview.Original = append(preview.Original, s)
		preview.Masked = append(preview.Masked, models.ValueToString(Mask(s, sType, strategy)))
	}
	return preview
}

// hashValue 取 SHA-256 十六进制摘要的前 8 位
func hashValue(str string) string {
	sum := sha256.Sum256([]byte(str))
	return hex.EncodeToString(sum[:])[:8]
}

func partialMask(str string, sType models.SensitiveType) string {
	switch sType {
	case models.SensitivePhone:
		return partialPhone(str)
	case models.SensitiveIDCard:
		return partialIDCard(str)
	case models.SensitiveEmail:
		return partialEmail(str)
	case models.SensitiveName:
		return partialName(str)
	case models.SensitiveAddress:
		return partialAddress(str)
	default:
		return partialGeneric(str)
	}
}

// partialPhone 保留前 3 位和后 4 位，如 138****5678；不足 11 位数字时整体遮盖
func partialPhone(str string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, str)
	if len(digits) >= 11 {
		return digits[:3] + "****" + digits[len(digits)-4:]
	}
	return strings.Repeat("*", len([]rune(str)))
}

// partialIDCard 18位和15位保留前 6 位和后 4 位；其余长度整体遮盖
func partialIDCard(str string) string {
	runes := []rune(str)
	switch len(runes) {
	case 18:
		return string(runes[:6]) + strings.Repeat("*", 8) + string(runes[14:])
	case 15:
		return string(runes[:6]) + strings.Repeat("*", 5) + string(runes[11:])
	}
	return strings.Repeat("*", len(runes))
}

// partialEmail 用户名保留前 2 位，域名完整保留，如 jo**@example.com
// 用户名不超过 2 位时整体遮盖用户名
func partialEmail(str string) string {
	at := strings.Index(str, "@")
	if at <= 0 {
		return partialGeneric(str)
	}
	user := []rune(str[:at])
	domain := str[at:]
	if len(user) <= 2 {
		return strings.Repeat("*", len(user)) + domain
	}
	return string(user[:2]) + strings.Repeat("*", len(user)-2) + domain
}

// partialName 保留姓氏首字，其余遮盖
func partialName(str string) string {
	runes := []rune(str)
	if len(runes) <= 1 {
		return str
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}

// partialAddress 长地址保留前 8 个字符，短地址保留前一半
func partialAddress(str string) string {
	runes := []rune(str)
	if len(runes) > 10 {
		return string(runes[:8]) + strings.Repeat("*", len(runes)-8)
	}
	keep := len(runes) / 2
	if keep == 0 {
		keep = 1
	}
	return string(runes[:keep]) + strings.Repeat("*", len(runes)-keep)
}

// partialGeneric 通用部分遮盖：保留首尾各 2 位
func partialGeneric(str string) string {
	runes := []rune(str)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}

func randomValue(sType models.SensitiveType) string {
	switch sType {
	case models.SensitivePhone:
		return randomPrefixes[rand.Intn(len(randomPrefixes))] + fmt.Sprintf("%08d", rand.Intn(100000000))
	case models.SensitiveIDCard:
		return fmt.Sprintf("%06d19%02d%02d%02d%04d",
			rand.Intn(1000000), rand.Intn(100), rand.Intn(12)+1, rand.Intn(28)+1, rand.Intn(10000))
	case models.SensitiveEmail:
		return fmt.Sprintf("user%04d@%s", rand.Intn(10000), randomDomains[rand.Intn(len(randomDomains))])
	case models.SensitiveName:
		return randomSurnames[rand.Intn(len(randomSurnames))] + randomGiven[rand.Intn(len(randomGiven))]
	case models.SensitiveAddress:
		return randomCities[rand.Intn(len(randomCities))] + randomStreets[rand.Intn(len(randomStreets))] +
			fmt.Sprintf("%d号", rand.Intn(999)+1)
	default:
		return fmt.Sprintf("随机值%04d", rand.Intn(10000))
	}
}
