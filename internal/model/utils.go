package model

// TruncateString cắt chuỗi xuống độ dài tối đa cho phép (tính theo ký tự)
// nếu chuỗi dài hơn giới hạn
func TruncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	return string(r[:maxLength])
}
