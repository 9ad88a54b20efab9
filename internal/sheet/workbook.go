// Package sheet 封装共享工作簿：整表读取（Fetch）与整表覆盖写回（Replace）。
// 这是系统里唯一的共享资源，fetch 与 replace 之间没有任何锁或事务，
// 两个并发会话 fetch→edit→replace 会互相覆盖（后写胜出），这是既有契约的一部分。
package sheet

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ZegOn01/Dmt-Notas/internal/coerce"
	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

// 失败分类：远端不可用 vs 凭证/权限问题，提示用户的补救方式不同
var (
	ErrUnavailable = errors.New("workbook unavailable")
	ErrAuth        = errors.New("workbook access denied")
)

// Workbook 磁盘上的共享 .xlsx 工作簿，一个逻辑表对应一个 sheet
type Workbook struct {
	path string
}

// New 创建工作簿访问器（不立即打开文件，每次操作独立开关）
func New(path string) *Workbook {
	return &Workbook{path: path}
}

// Path 返回工作簿文件路径
func (w *Workbook) Path() string {
	return w.path
}

// open 打开工作簿并分类失败原因
func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		if errors.Is(err, excelize.ErrWorkbookPassword) {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return f, nil
}

// Fetch 读取整个 sheet 并按 schema 解码为权威表
// sheet 不存在或为空不算错误：返回零行但带完整必需列的表
// 返回的 degraded 是本次解码退化的单元格数，调用方负责上报
func (w *Workbook) Fetch(sheetName string, schema model.Schema) (*model.Table, int, error) {
	f, err := w.open()
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var values [][]string
	if idx, _ := f.GetSheetIndex(sheetName); idx >= 0 {
		values, err = f.GetRows(sheetName)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: read sheet %s: %v", ErrUnavailable, sheetName, err)
		}
	}

	d := coerce.NewDecoder(schema)
	return d.DecodeTable(values), d.Degraded(), nil
}

// Replace 整表覆盖：删掉旧 sheet、重建、写入表头和编码后的数据行
// 没有部分失败恢复——写入中断后表内容不可信，调用方必须重新 Fetch
func (w *Workbook) Replace(sheetName string, t *model.Table) error {
	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	// excelize 不允许删除最后一个 sheet，先垫一个临时 sheet 保证删除成功
	const scratch = "__dmtnotas_scratch"
	if _, err := f.NewSheet(scratch); err != nil {
		return fmt.Errorf("%w: prepare rewrite: %v", ErrUnavailable, err)
	}
	f.DeleteSheet(sheetName)
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("%w: recreate sheet %s: %v", ErrUnavailable, sheetName, err)
	}
	f.DeleteSheet(scratch)

	for r, row := range coerce.EncodeTable(t) {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("%w: cell name: %v", ErrUnavailable, err)
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("%w: write cell %s: %v", ErrUnavailable, cell, err)
			}
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("%w: save workbook: %v", ErrUnavailable, err)
	}
	return nil
}
