// Package liftsync 是 LiftSocial 的 Go 客戶端。
//
// 它把本地畫面狀態與遠端多寫者的資料保持一致：
//   - Session 保存目前登入的身份，並在身份變更時通知訂閱者
//   - Client 提供各實體集合的快照查詢與寫入操作，不做任何本地快取
//   - Synchronizer 以引用計數共享每個 scope 的變動通知訂閱，
//     收到任何通知就重新抓取整個 scope，連續的通知會被合併
//   - Collection 先套用本地的樂觀更新再發出遠端寫入，
//     寫入失敗時還原先前保存的狀態
package liftsync
