package validator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// argon2id 参数上限，与登录时校验哈希的上限一致
const (
	argon2MaxMemory     = 1 << 20
	argon2MaxIterations = 10
	argon2MaxThreads    = 255
)

var (
	// 例: $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
	argon2idPHCPattern = regexp.MustCompile(`^\$argon2id\$v=19\$m=(\d{1,10}),t=(\d{1,10}),p=(\d{1,3})\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`)
	keyPrefixPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9_:.-]*:$`)
	emailDomainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)
)

func registerCustomValidators(v *validator.Validate) {
	// 规则名都是常量，注册失败只可能是编码错误
	for tag, fn := range map[string]validator.Func{
		"argon2id_phc": validateArgon2idPHC,
		"key_prefix":   validateKeyPrefix,
		"email_domain": validateEmailDomain,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// validateArgon2idPHC 验证 argon2id 的 PHC 字符串格式以及 m/t/p 取值范围
func validateArgon2idPHC(fl validator.FieldLevel) bool {
	m := argon2idPHCPattern.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}
	memory, _ := strconv.ParseUint(m[1], 10, 64)
	iterations, _ := strconv.ParseUint(m[2], 10, 64)
	threads, _ := strconv.ParseUint(m[3], 10, 64)

	return threads >= 1 && threads <= argon2MaxThreads &&
		iterations >= 1 && iterations <= argon2MaxIterations &&
		memory >= 8*threads && memory <= argon2MaxMemory
}

// validateKeyPrefix 验证 Redis key 前缀：
// 1. 小写字母或数字开头
// 2. 不能包含空白
// 3. 必须以冒号结尾
func validateKeyPrefix(fl validator.FieldLevel) bool {
	return keyPrefixPattern.MatchString(fl.Field().String())
}

// validateEmailDomain 验证邮箱域名，要求已经是小写
func validateEmailDomain(fl validator.FieldLevel) bool {
	domain := fl.Field().String()
	if len(domain) > 253 || strings.ToLower(domain) != domain {
		return false
	}
	return emailDomainPattern.MatchString(domain)
}
