package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 帳簿一致とみなす差（金額の丸め許容）
var consistencyEpsilon = decimal.NewFromFloat(0.01)

// 売上トランザクションのusecase。
// 作成・キャンセル・整合性チェックは1つのトランザクションで全部成功か全部失敗。
type SaleUsecase struct {
	tx    repo.TransactionManager
	sales repo.SaleRepository
	items repo.SaleItemRepository
}

func NewSaleUsecase(tx repo.TransactionManager, sales repo.SaleRepository, items repo.SaleItemRepository) *SaleUsecase {
	return &SaleUsecase{tx: tx, sales: sales, items: items}
}

type SaleItemInput struct {
	ProductID    int64           `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
}

type CreateSaleInput struct {
	Items         []SaleItemInput `json:"items"`
	DeclaredTotal decimal.Decimal `json:"declared_total"`
}

type SaleOutput struct {
	ID            int64           `json:"id"`
	SoldAt        time.Time       `json:"sold_at"`
	DeclaredTotal decimal.Decimal `json:"declared_total"`
	ItemCount     int64           `json:"item_count"`
	TotalQuantity int64           `json:"total_quantity"`
}

// CreateSaleは売上ヘッダ＋明細を作り、商品ごとに在庫を減らす。
// 途中でどれか1つでも失敗したら全体をrollbackする：
// ヘッダも明細も在庫減算も一切残らない。
func (u *SaleUsecase) CreateSale(ctx context.Context, actor Actor, in CreateSaleInput) (SaleOutput, error) {
	if err := actor.require(model.PermSalesCreate); err != nil {
		return SaleOutput{}, err
	}

	//ストアに触る前の入力チェック
	if len(in.Items) == 0 {
		return SaleOutput{}, NewValidationError("items", "must not be empty")
	}
	for i, it := range in.Items {
		if it.ProductID <= 0 {
			return SaleOutput{}, NewValidationError(fmt.Sprintf("items[%d].product_id", i), "required")
		}
		if it.Quantity <= 0 {
			return SaleOutput{}, NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be > 0")
		}
		if it.LineSubtotal.IsNegative() {
			return SaleOutput{}, NewValidationError(fmt.Sprintf("items[%d].line_subtotal", i), "must be >= 0")
		}
	}
	if in.DeclaredTotal.IsNegative() {
		return SaleOutput{}, NewValidationError("declared_total", "must be >= 0")
	}

	var out SaleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()

		//ヘッダを先に作ってIDを得る
		saleID, err := r.Sales().Create(ctx, model.Sale{
			SoldAt:        now,
			DeclaredTotal: in.DeclaredTotal,
		})
		if err != nil {
			return wrapStoreErr(err)
		}

		var totalQty int64

		//明細は呼び出し側の順で処理する
		for _, it := range in.Items {
			//同一トランザクション内で行ロック付き再読込。
			//事前に取ったスナップショットの在庫では判定しない。
			p, err := r.Products().FindByIDForUpdate(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("product", it.ProductID)
			}
			if err != nil {
				return wrapStoreErr(err)
			}

			if p.QuantityOnHand < it.Quantity {
				return &OutOfStockError{
					ProductID: it.ProductID,
					Requested: it.Quantity,
					Available: p.QuantityOnHand,
				}
			}

			if err := r.SaleItems().Create(ctx, model.SaleItem{
				SaleID:       saleID,
				ProductID:    it.ProductID,
				Quantity:     it.Quantity,
				LineSubtotal: it.LineSubtotal,
			}); err != nil {
				return wrapStoreErr(err)
			}

			//在庫減算（条件付きUPDATE）。行ロック済みなので通常はtrueだが、
			//falseなら在庫不足として扱う。
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return wrapStoreErr(err)
			}
			if !ok {
				return &OutOfStockError{
					ProductID: it.ProductID,
					Requested: it.Quantity,
					Available: p.QuantityOnHand,
				}
			}

			//在庫増減履歴
			sid := saleID
			if err := r.StockMovements().Create(ctx, model.StockMovement{
				ProductID: it.ProductID,
				SaleID:    &sid,
				Delta:     -it.Quantity,
				Reason:    model.MovementReasonSale,
			}); err != nil {
				return wrapStoreErr(err)
			}

			totalQty += it.Quantity
		}

		//監査ログ
		afterJSON := fmt.Sprintf(`{"declared_total":"%s","item_count":%d,"total_quantity":%d}`,
			in.DeclaredTotal.StringFixed(2), len(in.Items), totalQty)
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionCreateSale,
			ResourceType: model.AuditResourceSale,
			ResourceID:   saleID,
			AfterJSON:    afterJSON,
			CreatedAt:    now,
		}); err != nil {
			return wrapStoreErr(err)
		}

		out = SaleOutput{
			ID:            saleID,
			SoldAt:        now,
			DeclaredTotal: in.DeclaredTotal,
			ItemCount:     int64(len(in.Items)),
			TotalQuantity: totalQty,
		}
		return nil
	})

	if err != nil {
		//beginやcommitの失敗もStoreUnavailableとして返す
		return SaleOutput{}, wrapStoreErr(err)
	}
	return out, nil
}

type CancelSaleOutput struct {
	SaleID          int64   `json:"sale_id"`
	RestoredItems   int     `json:"restored_items"`
	SkippedProducts []int64 `json:"skipped_products,omitempty"`
}

// CancelSaleは明細の数量を在庫に戻し、明細とヘッダを消す。全部で1トランザクション。
// 商品の行が完全に消えている場合はその商品の在庫戻しだけスキップして
// キャンセル自体は成立させる（スキップした商品IDは結果と監査ログに残す）。
func (u *SaleUsecase) CancelSale(ctx context.Context, actor Actor, saleID int64) (CancelSaleOutput, error) {
	if err := actor.require(model.PermSalesCancel); err != nil {
		return CancelSaleOutput{}, err
	}
	if saleID <= 0 {
		return CancelSaleOutput{}, NewValidationError("sale_id", "required")
	}

	var out CancelSaleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sale, err := r.Sales().FindByID(ctx, saleID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("sale", saleID)
		}
		if err != nil {
			return wrapStoreErr(err)
		}

		items, err := r.SaleItems().ListBySaleID(ctx, saleID)
		if err != nil {
			return wrapStoreErr(err)
		}

		//在庫戻し。明細削除より先にやるが、同一トランザクションなので順序は結果に影響しない。
		restored := 0
		var skipped []int64
		for _, it := range items {
			err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity)
			if errors.Is(err, repo.ErrNotFound) {
				//商品行がもう無い。戻し先が無いのでスキップ。
				skipped = append(skipped, it.ProductID)
				continue
			}
			if err != nil {
				return wrapStoreErr(err)
			}

			sid := saleID
			if err := r.StockMovements().Create(ctx, model.StockMovement{
				ProductID: it.ProductID,
				SaleID:    &sid,
				Delta:     it.Quantity,
				Reason:    model.MovementReasonCancel,
			}); err != nil {
				return wrapStoreErr(err)
			}
			restored++
		}

		if err := r.SaleItems().DeleteBySaleID(ctx, saleID); err != nil {
			return wrapStoreErr(err)
		}
		if err := r.Sales().Delete(ctx, saleID); err != nil {
			return wrapStoreErr(err)
		}

		beforeJSON := fmt.Sprintf(`{"declared_total":"%s","item_count":%d,"skipped_products":%d}`,
			sale.DeclaredTotal.StringFixed(2), len(items), len(skipped))
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionCancelSale,
			ResourceType: model.AuditResourceSale,
			ResourceID:   saleID,
			BeforeJSON:   beforeJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return wrapStoreErr(err)
		}

		out = CancelSaleOutput{
			SaleID:          saleID,
			RestoredItems:   restored,
			SkippedProducts: skipped,
		}
		return nil
	})

	if err != nil {
		return CancelSaleOutput{}, wrapStoreErr(err)
	}
	return out, nil
}

type VerifyOutput struct {
	Consistent    bool            `json:"consistent"`
	DeclaredTotal decimal.Decimal `json:"declared_total"`
	ComputedTotal decimal.Decimal `json:"computed_total"`
	Difference    decimal.Decimal `json:"difference"`
}

// VerifyConsistencyは申告合計と明細小計の合計を比べる。読み取りのみ。
// スナップショットを安定させるため専用のトランザクションで読む。
func (u *SaleUsecase) VerifyConsistency(ctx context.Context, actor Actor, saleID int64) (VerifyOutput, error) {
	if err := actor.require(model.PermSalesRead); err != nil {
		return VerifyOutput{}, err
	}
	if saleID <= 0 {
		return VerifyOutput{}, NewValidationError("sale_id", "required")
	}

	var out VerifyOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sale, err := r.Sales().FindByID(ctx, saleID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("sale", saleID)
		}
		if err != nil {
			return wrapStoreErr(err)
		}

		items, err := r.SaleItems().ListBySaleID(ctx, saleID)
		if err != nil {
			return wrapStoreErr(err)
		}

		computed := decimal.Zero
		for _, it := range items {
			computed = computed.Add(it.LineSubtotal)
		}

		diff := computed.Sub(sale.DeclaredTotal).Abs()
		out = VerifyOutput{
			Consistent:    diff.LessThan(consistencyEpsilon),
			DeclaredTotal: sale.DeclaredTotal,
			ComputedTotal: computed,
			Difference:    diff,
		}
		return nil
	})

	if err != nil {
		return VerifyOutput{}, wrapStoreErr(err)
	}
	return out, nil
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ReportSummary struct {
	TotalSales     int             `json:"total_sales"`
	TotalValue     decimal.Decimal `json:"total_value"`
	TotalQuantity  int64           `json:"total_quantity"`
	AveragePerSale decimal.Decimal `json:"average_per_sale"`
}

type ReportOutput struct {
	Period  ReportPeriod          `json:"period"`
	Summary ReportSummary         `json:"summary"`
	Sales   []repo.SaleWithTotals `json:"sales"`
}

// GenerateReportは期間内（両端含む）の売上を集計する。純粋な読み取り。
func (u *SaleUsecase) GenerateReport(ctx context.Context, actor Actor, start, end time.Time) (ReportOutput, error) {
	if err := actor.require(model.PermReportsRead); err != nil {
		return ReportOutput{}, err
	}
	if end.Before(start) {
		return ReportOutput{}, NewValidationError("period", "end must not be before start")
	}

	sales, err := u.sales.QueryRange(ctx, start, end)
	if err != nil {
		return ReportOutput{}, wrapStoreErr(err)
	}

	summary := ReportSummary{
		TotalSales:     len(sales),
		TotalValue:     decimal.Zero,
		AveragePerSale: decimal.Zero,
	}
	for _, s := range sales {
		summary.TotalValue = summary.TotalValue.Add(s.DeclaredTotal)
		summary.TotalQuantity += s.TotalQuantity
	}
	//売上ゼロ件のときの平均は0
	if len(sales) > 0 {
		summary.AveragePerSale = summary.TotalValue.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}

	return ReportOutput{
		Period:  ReportPeriod{Start: start, End: end},
		Summary: summary,
		Sales:   sales,
	}, nil
}

// ListSalesは全売上を集計付き・新しい順で返す。
func (u *SaleUsecase) ListSales(ctx context.Context, actor Actor) ([]repo.SaleWithTotals, error) {
	if err := actor.require(model.PermSalesRead); err != nil {
		return nil, err
	}

	sales, err := u.sales.ListWithTotals(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return sales, nil
}

type SaleDetailOutput struct {
	repo.SaleWithTotals
	Items []repo.SaleItemDetail `json:"items"`
}

// GetSaleはヘッダ＋商品・仕入先情報付きの明細を返す。
func (u *SaleUsecase) GetSale(ctx context.Context, actor Actor, saleID int64) (SaleDetailOutput, error) {
	if err := actor.require(model.PermSalesRead); err != nil {
		return SaleDetailOutput{}, err
	}
	if saleID <= 0 {
		return SaleDetailOutput{}, NewValidationError("sale_id", "required")
	}

	sale, err := u.sales.FindWithTotals(ctx, saleID)
	if errors.Is(err, repo.ErrNotFound) {
		return SaleDetailOutput{}, NewNotFoundError("sale", saleID)
	}
	if err != nil {
		return SaleDetailOutput{}, wrapStoreErr(err)
	}

	items, err := u.items.ListDetailsBySaleID(ctx, saleID)
	if err != nil {
		return SaleDetailOutput{}, wrapStoreErr(err)
	}

	return SaleDetailOutput{SaleWithTotals: sale, Items: items}, nil
}
