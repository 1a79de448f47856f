package journal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCountry    = errors.New("journal: country is required")
	ErrEmptyRegion     = errors.New("journal: region is required")
	ErrEmptyAnswer     = errors.New("journal: answer is required")
	ErrStepOrder       = errors.New("journal: step out of order")
	ErrUnknownSouvenir = errors.New("journal: unknown souvenir")
	ErrPhotoFormat     = errors.New("journal: photo must be an image data URL")
	ErrPhotoTooLarge   = errors.New("journal: photo too large")
)

// Step：录入流程所处步骤
type Step string

const (
	StepRegion Step = "region"
	StepRoll   Step = "roll"
	StepAnswer Step = "answer"
	StepDone   Step = "done"
)

// Draft：三步录入流程（地区 → 掷骰 → 回答/照片）
// 背景：对应前端弹窗的步骤；服务端按同一顺序校验，保证落库记录的回答非空。
// 约束：步骤不可跳过；地区与回答按去除首尾空白后判空，但保存原始输入（聚合不做归一化）。
type Draft struct {
	country       string
	step          Step
	region        string
	souvenir      Souvenir
	answer        string
	photo         string
	maxPhotoBytes int
}

// NewDraft：为指定国家开启录入；maxPhotoBytes<=0 表示不限制照片大小
func NewDraft(country string, maxPhotoBytes int) (*Draft, error) {
	if strings.TrimSpace(country) == "" {
		return nil, ErrEmptyCountry
	}
	return &Draft{country: country, step: StepRegion, maxPhotoBytes: maxPhotoBytes}, nil
}

func (d *Draft) Country() string { return d.country }
func (d *Draft) Step() Step      { return d.step }

// SetRegion：第一步，填写城市或地区
func (d *Draft) SetRegion(region string) error {
	if d.step != StepRegion {
		return fmt.Errorf("%w: region at step %s", ErrStepOrder, d.step)
	}
	if strings.TrimSpace(region) == "" {
		return ErrEmptyRegion
	}
	d.region = region
	d.step = StepRoll
	return nil
}

// Roll：第二步，掷纪念品骰子
func (d *Draft) Roll(src IntSource) (Souvenir, error) {
	if d.step != StepRoll {
		return Souvenir{}, fmt.Errorf("%w: roll at step %s", ErrStepOrder, d.step)
	}
	d.souvenir = Roll(src)
	d.step = StepAnswer
	return d.souvenir, nil
}

// Choose：第二步的替代路径，客户端已掷骰时按 id 指定题目
func (d *Draft) Choose(id string) (Souvenir, error) {
	if d.step != StepRoll {
		return Souvenir{}, fmt.Errorf("%w: choose at step %s", ErrStepOrder, d.step)
	}
	s, ok := SouvenirByID(id)
	if !ok {
		return Souvenir{}, fmt.Errorf("%w: %q", ErrUnknownSouvenir, id)
	}
	d.souvenir = s
	d.step = StepAnswer
	return s, nil
}

// Answer：第三步，记录回答与可选照片
func (d *Draft) Answer(answer, photo string) error {
	if d.step != StepAnswer {
		return fmt.Errorf("%w: answer at step %s", ErrStepOrder, d.step)
	}
	if strings.TrimSpace(answer) == "" {
		return ErrEmptyAnswer
	}
	if err := d.checkPhoto(photo); err != nil {
		return err
	}
	d.answer = answer
	d.photo = photo
	d.step = StepDone
	return nil
}

func (d *Draft) checkPhoto(photo string) error {
	if photo == "" {
		return nil
	}
	if !strings.HasPrefix(photo, "data:image/") {
		return ErrPhotoFormat
	}
	if d.maxPhotoBytes > 0 && len(photo) > d.maxPhotoBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrPhotoTooLarge, len(photo), d.maxPhotoBytes)
	}
	return nil
}

// Finish：生成最终记录；仅在三步全部完成后可用
func (d *Draft) Finish() (VisitRecord, error) {
	if d.step != StepDone {
		return VisitRecord{}, fmt.Errorf("%w: finish at step %s", ErrStepOrder, d.step)
	}
	return VisitRecord{
		Country:  d.country,
		Region:   d.region,
		Souvenir: d.souvenir,
		Answer:   d.answer,
		Photo:    d.photo,
	}, nil
}
