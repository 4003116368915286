/*Package interval builds chromosome-partitioned interval indexes from
  BED-like files and answers overlap queries against them.
  Intervals are tracked individually, payload columns and all; nothing is
  merged, so a query returns every source line that overlaps it.
*/
package interval
