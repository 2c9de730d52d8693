package services

import (
	"bytes"
	"fmt"
	"sort"

	"trend-dashboard/pkg/models"

	"github.com/xuri/excelize/v2"
)

// エクスポートするシート名
const (
	SheetPredictions = "Predictions"
	SheetForecasts   = "Forecasts"
	SheetKeywords    = "Keywords"
	SheetProducts    = "Products"
)

// ExportService は正規化済みの予測データをExcelブックに書き出します。
type ExportService struct{}

// NewExportService 新しいエクスポートサービスを作成
func NewExportService() *ExportService {
	return &ExportService{}
}

// BuildWorkbook は予測データからxlsxファイルを生成します。
func (es *ExportService) BuildWorkbook(data *models.PredictionResponse) (*bytes.Buffer, error) {
	if data == nil {
		return nil, fmt.Errorf("エクスポートするデータがありません: %w", ErrNoData)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPredictions); err != nil {
		return nil, fmt.Errorf("シート名の設定に失敗: %w", err)
	}
	for _, name := range []string{SheetForecasts, SheetKeywords, SheetProducts} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("シートの作成に失敗 (%s): %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("スタイルの作成に失敗: %w", err)
	}

	// 予測（ラベル順）
	labels := make([]string, 0, len(data.Predictions))
	for label := range data.Predictions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	predictionRows := make([][]interface{}, 0, len(labels))
	for _, label := range labels {
		predictionRows = append(predictionRows, []interface{}{label, data.Predictions[label]})
	}
	if err := writeSheet(f, SheetPredictions, headerStyle, []interface{}{"Product", "Prediction"}, predictionRows); err != nil {
		return nil, err
	}

	forecastRows := make([][]interface{}, 0, len(data.Forecasts))
	for _, point := range data.Forecasts {
		forecastRows = append(forecastRows, []interface{}{point.Date, point.Value})
	}
	if err := writeSheet(f, SheetForecasts, headerStyle, []interface{}{"Date", "Value"}, forecastRows); err != nil {
		return nil, err
	}

	keywordRows := make([][]interface{}, 0, len(data.WordCloudData))
	for _, word := range data.WordCloudData {
		keywordRows = append(keywordRows, []interface{}{word.Text, word.Value})
	}
	if err := writeSheet(f, SheetKeywords, headerStyle, []interface{}{"Keyword", "Frequency"}, keywordRows); err != nil {
		return nil, err
	}

	productRows := make([][]interface{}, 0, len(data.TrendingProducts)+len(data.NonTrendingProducts))
	for _, group := range [][]models.ProductPrediction{data.TrendingProducts, data.NonTrendingProducts} {
		for _, p := range group {
			productRows = append(productRows, []interface{}{p.ProductName, p.PredictedTrend, p.Score, p.Confidence})
		}
	}
	if err := writeSheet(f, SheetProducts, headerStyle, []interface{}{"Product", "Status", "Score", "Confidence"}, productRows); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(SheetPredictions, "A", "A", 48); err != nil {
		return nil, fmt.Errorf("列幅の設定に失敗: %w", err)
	}
	if err := f.SetColWidth(SheetProducts, "A", "A", 48); err != nil {
		return nil, fmt.Errorf("列幅の設定に失敗: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ブックの書き出しに失敗: %w", err)
	}
	return buf, nil
}

// writeSheet はヘッダー行とデータ行をシートに書き込みます。
func writeSheet(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("ヘッダーの書き込みに失敗 (%s): %w", sheet, err)
	}
	lastCol, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("セル名の変換に失敗 (%s): %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("ヘッダースタイルの設定に失敗 (%s): %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("セル名の変換に失敗 (%s): %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("行の書き込みに失敗 (%s): %w", sheet, err)
		}
	}
	return nil
}
