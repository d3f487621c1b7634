package service

// BMICategory 表示 BMI 分类
type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// BMILabels 提供分类对应的展示文案
var BMILabels = map[BMICategory]string{
	BMIUnderweight: "偏瘦",
	BMINormal:      "正常",
	BMIOverweight:  "偏胖",
	BMIObese:       "肥胖",
}

// CalculateBMI 计算 BMI，体重单位公斤、身高单位厘米。
// 任一输入不为正数时返回 0，调用方视为「不可用」。
func CalculateBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// BMICategoryOf 返回 BMI 所属分类，阈值 18.5 / 24 / 28。
func BMICategoryOf(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 24:
		return BMINormal
	case bmi < 28:
		return BMIOverweight
	default:
		return BMIObese
	}
}
